package panes

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"github.com/pappardelle/pappardelle/internal/session"
	"github.com/pappardelle/pappardelle/internal/tmux"
)

// detachSettle gives a nested client time to exit before more keys are typed
// into the pane's shell.
const detachSettle = 50 * time.Millisecond

// Sessions answers whether workspace sessions exist and creates them.
// *session.Manager implements it.
type Sessions interface {
	Exists(ctx context.Context, name string) bool
	Ensure(ctx context.Context, kind session.Kind, workspaceKey, dir string) bool
}

var _ Sessions = (*session.Manager)(nil)

// ViewerState is what the Attacher knows about one viewer pane.
//
// With HasNestedClient false the pane runs a plain shell. With it true a
// nested tmux client attached from the pane's tty is showing Session.
type ViewerState struct {
	CachedTTY       string
	HasNestedClient bool
	Session         string
}

// Target is the workspace the viewers should show.
type Target struct {
	Key string // workspace key, e.g. "STA-123"
	Dir string // worktree path used when a session must be started
}

// Attacher points viewer panes at workspace sessions.
type Attacher struct {
	mux      Mux
	sessions Sessions
	viewers  map[string]*ViewerState
	current  string
	sleep    func(time.Duration)
}

// NewAttacher creates an Attacher with no viewers attached.
func NewAttacher(mux Mux, sessions Sessions) *Attacher {
	return &Attacher{
		mux:      mux,
		sessions: sessions,
		viewers:  make(map[string]*ViewerState),
		sleep:    time.Sleep,
	}
}

// CurrentTarget returns the key of the workspace the viewers show, or "".
func (a *Attacher) CurrentTarget() string {
	return a.current
}

// ClearTarget forgets the shown workspace so the next Show re-attaches.
func (a *Attacher) ClearTarget() {
	a.current = ""
}

// Viewer returns a copy of the state held for paneID.
func (a *Attacher) Viewer(paneID string) ViewerState {
	if st, ok := a.viewers[paneID]; ok {
		return *st
	}
	return ViewerState{}
}

// attachResult is the outcome of pointing one viewer at a session.
type attachResult int

const (
	// attachFailed means a tmux query or command failed. Nothing conclusive
	// was typed into the pane, so the attach may be retried.
	attachFailed attachResult = iota
	// attachShown means the pane displays the session.
	attachShown
	// attachNoSession means the session could not be started and the pane
	// shows a message instead.
	attachNoSession
)

// Show points the primary viewer at the target's assistant session and the
// secondary viewer, if present, at its review session. Showing the workspace
// that is already shown issues no tmux commands. A workspace without a
// session is messaged once and stays the shown target until ClearTarget.
func (a *Attacher) Show(ctx context.Context, set PaneSet, t Target) bool {
	if t.Key == "" || set.Primary == "" {
		return false
	}
	if t.Key == a.current {
		return true
	}

	res := a.attachPane(ctx, set.Primary, session.Assistant, t, set.List)
	if set.Secondary != "" {
		a.attachPane(ctx, set.Secondary, session.Review, t, set.List)
	}
	switch res {
	case attachShown, attachNoSession:
		a.current = t.Key
	default:
		a.current = ""
	}
	return res == attachShown
}

// Attach makes paneID display the target's session of the given kind and then
// returns focus to refocus. It reports whether the session is now displayed.
func (a *Attacher) Attach(ctx context.Context, paneID string, kind session.Kind, t Target, refocus string) bool {
	return a.attachPane(ctx, paneID, kind, t, refocus) == attachShown
}

func (a *Attacher) attachPane(ctx context.Context, paneID string, kind session.Kind, t Target, refocus string) attachResult {
	st := a.state(paneID)
	name := session.Name(kind, t.Key)
	if st.HasNestedClient && st.Session == name {
		alive, err := a.clientAlive(ctx, st.CachedTTY)
		if err != nil {
			log.Printf("[attach] list clients: %v", err)
			return attachFailed
		}
		if alive {
			return attachShown
		}
	}

	res := a.attach(ctx, paneID, st, kind, t, name)
	if res != attachFailed {
		a.focus(ctx, refocus)
	}
	return res
}

func (a *Attacher) attach(ctx context.Context, paneID string, st *ViewerState, kind session.Kind, t Target, name string) attachResult {
	if !a.sessions.Exists(ctx, name) && !a.sessions.Ensure(ctx, kind, t.Key, t.Dir) {
		if st.HasNestedClient {
			a.detach(ctx, paneID, st)
		}
		*st = ViewerState{CachedTTY: st.CachedTTY}
		a.showMessage(ctx, paneID, "No "+kind.String()+" session for "+t.Key)
		return attachNoSession
	}

	if st.CachedTTY == "" {
		tty, err := a.mux.PaneTTY(ctx, paneID)
		if err != nil {
			log.Printf("[attach] pane tty %s: %v", paneID, err)
		}
		st.CachedTTY = tty
	}

	// Keys are typed only once tmux reports the nested client gone.
	if st.HasNestedClient {
		alive, err := a.clientAlive(ctx, st.CachedTTY)
		if err != nil {
			log.Printf("[attach] list clients: %v", err)
			return attachFailed
		}
		if alive {
			err := a.mux.SwitchClient(ctx, st.CachedTTY, name)
			if err == nil {
				st.Session = name
				return attachShown
			}
			if !errors.Is(err, tmux.ErrNotFound) {
				log.Printf("[attach] switch-client %s -> %s: %v", st.CachedTTY, name, err)
				return attachFailed
			}
			log.Printf("[attach] client on %s vanished, reattaching", st.CachedTTY)
		}
		st.HasNestedClient = false
		st.Session = ""
		// The pane may have been respawned under a different tty.
		if tty, err := a.mux.PaneTTY(ctx, paneID); err == nil {
			st.CachedTTY = tty
		} else {
			st.CachedTTY = ""
		}
	}

	if err := a.mux.SendKeys(ctx, paneID, "C-u", a.attachCommand(name), "Enter"); err != nil {
		log.Printf("[attach] send attach to %s: %v", paneID, err)
		st.HasNestedClient = false
		st.Session = ""
		return attachFailed
	}
	st.HasNestedClient = true
	st.Session = name
	return attachShown
}

// DetachViewer detaches the nested client in paneID, if any.
func (a *Attacher) DetachViewer(ctx context.Context, paneID string) {
	st, ok := a.viewers[paneID]
	if !ok || !st.HasNestedClient {
		return
	}
	a.detach(ctx, paneID, st)
}

// ResetViewers drops all viewer state. Used after viewer panes are destroyed.
func (a *Attacher) ResetViewers() {
	a.viewers = make(map[string]*ViewerState)
	a.current = ""
}

func (a *Attacher) state(paneID string) *ViewerState {
	st, ok := a.viewers[paneID]
	if !ok {
		st = &ViewerState{}
		a.viewers[paneID] = st
	}
	return st
}

// clientAlive reports whether a tmux client is attached from tty. An error
// means the answer is unknown.
func (a *Attacher) clientAlive(ctx context.Context, tty string) (bool, error) {
	if tty == "" {
		return false, nil
	}
	ttys, err := a.mux.ListClientTTYs(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ttys, tty), nil
}

func (a *Attacher) detach(ctx context.Context, paneID string, st *ViewerState) {
	prefix, err := a.mux.Prefix(ctx)
	if err != nil {
		prefix = "C-b"
	}
	if err := a.mux.SendKeys(ctx, paneID, prefix, "d"); err != nil {
		log.Printf("[attach] detach %s: %v", paneID, err)
	}
	st.HasNestedClient = false
	st.Session = ""
	a.sleep(detachSettle)
}

func (a *Attacher) showMessage(ctx context.Context, paneID, msg string) {
	cmd := "clear; echo " + tmux.EscapeShellArg(msg)
	if err := a.mux.SendKeys(ctx, paneID, "C-u", cmd, "Enter"); err != nil {
		log.Printf("[attach] message to %s: %v", paneID, err)
	}
}

// attachCommand is typed into a viewer's shell. TMUX is cleared so tmux
// allows the nested attach.
func (a *Attacher) attachCommand(name string) string {
	cmd := "TMUX= tmux "
	if sock := a.mux.Socket(); sock != "" {
		cmd += "-L " + tmux.EscapeShellArg(sock) + " "
	}
	return cmd + "attach -t " + tmux.EscapeShellArg(name)
}

func (a *Attacher) focus(ctx context.Context, paneID string) {
	if paneID == "" {
		return
	}
	if err := a.mux.SelectPane(ctx, paneID); err != nil {
		log.Printf("[attach] refocus %s: %v", paneID, err)
	}
}
