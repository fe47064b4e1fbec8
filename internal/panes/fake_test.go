package panes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pappardelle/pappardelle/internal/session"
	"github.com/pappardelle/pappardelle/internal/tmux"
)

// fakeMux simulates one tmux window plus the nested clients running in it.
// Mutating commands are recorded in calls; queries are not.
type fakeMux struct {
	cols, rows int
	socket     string
	prefix     string

	nextID  int
	panes   []tmux.PaneInfo
	zoomed  bool
	ttys    map[string]string // pane -> tty
	clients map[string]string // client tty -> session

	calls []string
	fail  map[string]error // command name -> error
}

func newFakeMux(cols, rows int) *fakeMux {
	return &fakeMux{
		cols:    cols,
		rows:    rows,
		prefix:  "C-b",
		nextID:  1,
		panes:   []tmux.PaneInfo{{ID: "%0", Active: true}},
		ttys:    map[string]string{"%0": "/dev/ttys000"},
		clients: map[string]string{},
		fail:    map[string]error{},
	}
}

func (f *fakeMux) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeMux) reset() {
	f.calls = nil
}

// count returns how many recorded calls start with prefix.
func (f *fakeMux) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeMux) has(id string) bool {
	for _, p := range f.panes {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeMux) pane(id string) *tmux.PaneInfo {
	for i := range f.panes {
		if f.panes[i].ID == id {
			return &f.panes[i]
		}
	}
	return nil
}

func (f *fakeMux) Socket() string { return f.socket }

func (f *fakeMux) Prefix(ctx context.Context) (string, error) {
	return f.prefix, f.fail["prefix"]
}

func (f *fakeMux) WindowSize(ctx context.Context, target string) (int, int, error) {
	if err := f.fail["window-size"]; err != nil {
		return 0, 0, err
	}
	return f.cols, f.rows, nil
}

func (f *fakeMux) SplitPane(ctx context.Context, opts tmux.SplitOptions) (string, error) {
	if err := f.fail["split-window"]; err != nil {
		return "", err
	}
	if !f.has(opts.Target) {
		return "", tmux.ErrNotFound
	}
	id := fmt.Sprintf("%%%d", f.nextID)
	f.nextID++
	f.panes = append(f.panes, tmux.PaneInfo{ID: id})
	f.ttys[id] = fmt.Sprintf("/dev/ttys%03d", f.nextID+100)
	f.record("split-window %s %s %d", opts.Direction, opts.Target, opts.Size)
	return id, nil
}

func (f *fakeMux) ResizePaneWidth(ctx context.Context, paneID string, cols int) error {
	f.record("resize-pane -x %s %d", paneID, cols)
	return f.fail["resize-pane"]
}

func (f *fakeMux) ResizePaneHeight(ctx context.Context, paneID string, rows int) error {
	f.record("resize-pane -y %s %d", paneID, rows)
	return f.fail["resize-pane"]
}

func (f *fakeMux) WindowZoomed(ctx context.Context, paneID string) (bool, error) {
	return f.zoomed, f.fail["zoomed"]
}

func (f *fakeMux) ToggleZoom(ctx context.Context, paneID string) error {
	f.record("resize-pane -Z %s", paneID)
	f.zoomed = !f.zoomed
	return nil
}

func (f *fakeMux) KillPane(ctx context.Context, paneID string) error {
	f.record("kill-pane %s", paneID)
	for i, p := range f.panes {
		if p.ID == paneID {
			f.panes = append(f.panes[:i], f.panes[i+1:]...)
			delete(f.clients, f.ttys[paneID])
			return nil
		}
	}
	return tmux.ErrNotFound
}

func (f *fakeMux) SelectPane(ctx context.Context, paneID string) error {
	f.record("select-pane %s", paneID)
	return f.fail["select-pane"]
}

func (f *fakeMux) SetPaneOption(ctx context.Context, paneID, key, value string) error {
	if err := f.fail["set-option"]; err != nil {
		return err
	}
	f.record("set-option %s %s", paneID, key)
	if p := f.pane(paneID); p != nil && key == tmux.RoleOption {
		p.Role = value
	}
	return nil
}

func (f *fakeMux) ListPanes(ctx context.Context, target string) ([]tmux.PaneInfo, error) {
	return append([]tmux.PaneInfo(nil), f.panes...), f.fail["list-panes"]
}

func (f *fakeMux) ConfigureChrome(ctx context.Context, target string) error {
	f.record("chrome %s", target)
	return nil
}

func (f *fakeMux) PaneTTY(ctx context.Context, paneID string) (string, error) {
	if err := f.fail["pane-tty"]; err != nil {
		return "", err
	}
	tty, ok := f.ttys[paneID]
	if !ok {
		return "", tmux.ErrNotFound
	}
	return tty, nil
}

func (f *fakeMux) ListClientTTYs(ctx context.Context) ([]string, error) {
	var out []string
	for tty := range f.clients {
		out = append(out, tty)
	}
	return out, f.fail["list-clients"]
}

func (f *fakeMux) SwitchClient(ctx context.Context, tty, name string) error {
	f.record("switch-client %s %s", tty, name)
	if err := f.fail["switch-client"]; err != nil {
		return err
	}
	if _, ok := f.clients[tty]; !ok {
		return tmux.ErrNotFound
	}
	f.clients[tty] = name
	return nil
}

// SendKeys understands the two key sequences the attacher types: the nested
// attach command and prefix+d.
func (f *fakeMux) SendKeys(ctx context.Context, paneID string, keys ...string) error {
	f.record("send-keys %s %s", paneID, strings.Join(keys, " "))
	if err := f.fail["send-keys"]; err != nil {
		return err
	}
	tty := f.ttys[paneID]
	for _, k := range keys {
		if i := strings.Index(k, "attach -t "); i >= 0 {
			f.clients[tty] = strings.Trim(k[i+len("attach -t "):], "'")
		}
	}
	if len(keys) == 2 && keys[0] == f.prefix && keys[1] == "d" {
		delete(f.clients, tty)
	}
	return nil
}

// fakeSessions records session lookups and creations.
type fakeSessions struct {
	running  map[string]bool
	canStart bool
	started  []string
}

func newFakeSessions(names ...string) *fakeSessions {
	s := &fakeSessions{running: map[string]bool{}, canStart: true}
	for _, n := range names {
		s.running[n] = true
	}
	return s
}

func (s *fakeSessions) Exists(ctx context.Context, name string) bool {
	return s.running[name]
}

func (s *fakeSessions) Ensure(ctx context.Context, kind session.Kind, key, dir string) bool {
	name := session.Name(kind, key)
	if s.running[name] {
		return true
	}
	if !s.canStart || dir == "" {
		return false
	}
	s.running[name] = true
	s.started = append(s.started, name)
	return true
}

// recordingHooks tracks ViewerHooks calls.
type recordingHooks struct {
	detached []string
	resets   int
}

func (h *recordingHooks) DetachViewer(ctx context.Context, paneID string) {
	h.detached = append(h.detached, paneID)
}

func (h *recordingHooks) ResetViewers() {
	h.resets++
}

func noSleep(time.Duration) {}
