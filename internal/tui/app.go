package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pappardelle/pappardelle/internal/layout"
	"github.com/pappardelle/pappardelle/internal/panes"
	"github.com/pappardelle/pappardelle/internal/status"
	"github.com/pappardelle/pappardelle/internal/workspace"
)

const toastDuration = 2 * time.Second

// listTimeout bounds one workspace inventory refresh.
const listTimeout = 10 * time.Second

// Version info - set by main via SetVersionInfo
var (
	versionInfo = "dev"
	commitHash  = "unknown"
)

// SetVersionInfo sets the version info displayed in the help dialog
func SetVersionInfo(version, commit string) {
	versionInfo = version
	commitHash = commit
}

// Inventory lists workspaces. *workspace.Inventory implements it.
type Inventory interface {
	List(ctx context.Context) ([]workspace.Workspace, error)
}

// PaneEngine resizes and zooms the dashboard panes. *panes.Orchestrator implements it.
type PaneEngine interface {
	HandleResize(ctx context.Context, set panes.PaneSet, itemCount int) (panes.PaneSet, layout.ResizeAction, error)
	ZoomPane(ctx context.Context, paneID string) error
	UnzoomPane(ctx context.Context, paneID string) error
	LabelViewers(ctx context.Context, workspaceKey, status string)
}

// Viewer points the viewer panes at a workspace. *panes.Attacher implements it.
type Viewer interface {
	Show(ctx context.Context, set panes.PaneSet, t panes.Target) bool
	CurrentTarget() string
	ClearTarget()
}

var (
	_ PaneEngine = (*panes.Orchestrator)(nil)
	_ Viewer     = (*panes.Attacher)(nil)
	_ Inventory  = (*workspace.Inventory)(nil)
)

// Options configures an AppModel. Engine and Viewer are nil in standalone mode.
type Options struct {
	Inventory Inventory
	Engine    PaneEngine
	Viewer    Viewer
	Panes     panes.PaneSet
	Events    <-chan status.Event

	RepoName   string
	RepoPath   string
	TmuxPrefix string
	// StandaloneReason is shown when the user asks for viewers without pane wiring.
	StandaloneReason string

	PollInterval   time.Duration
	ResizeDebounce time.Duration
	ZoomSettle     time.Duration
}

// AppModel is the list pane: it owns selection and drives the viewers.
type AppModel struct {
	ctx  context.Context
	opts Options
	keys KeyMap
	help help.Model

	workspaces []workspace.Workspace
	statuses   map[string]status.Status
	selected   int
	loaded     bool
	listErr    error

	panes     panes.PaneSet
	resizeSeq int // latest WindowSizeMsg; older debounce ticks are dropped

	width  int
	height int

	dialog      bool // help dialog open
	dialogReady bool // zoom has settled, safe to draw the dialog
	zoomSeq     int

	toast       string
	toastExpiry time.Time
	quitting    bool
}

// workspacesMsg carries the result of an inventory refresh.
type workspacesMsg struct {
	list []workspace.Workspace
	err  error
}

// pollTickMsg triggers the periodic inventory refresh.
type pollTickMsg struct{}

// statusMsg delivers one status-file change.
type statusMsg struct {
	event status.Event
}

// resizeSettledMsg fires once the debounce after a WindowSizeMsg elapses.
type resizeSettledMsg struct {
	seq int
}

// zoomSettledMsg fires once the zoom for a dialog has had time to apply.
type zoomSettledMsg struct {
	seq int
}

type toastExpiredMsg struct{}

// NewAppModel creates the list model.
func NewAppModel(ctx context.Context, opts Options) AppModel {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = 150 * time.Millisecond
	}
	if opts.ZoomSettle <= 0 {
		opts.ZoomSettle = panes.ZoomSettle
	}
	if opts.Engine == nil || opts.Viewer == nil {
		opts.Engine, opts.Viewer = nil, nil
	}
	return AppModel{
		ctx:      ctx,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		statuses: make(map[string]status.Status),
		panes:    opts.Panes,
	}
}

// Standalone reports whether the list runs without viewer panes.
func (m AppModel) Standalone() bool {
	return m.opts.Viewer == nil
}

// Init starts the inventory poll and the status event drain.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.pollTickCmd(), waitForStatus(m.opts.Events), tea.HideCursor)
}

func (m AppModel) fetchCmd() tea.Cmd {
	ctx, inv := m.ctx, m.opts.Inventory
	if inv == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, listTimeout)
		defer cancel()
		list, err := inv.List(ctx)
		return workspacesMsg{list: list, err: err}
	}
}

func (m AppModel) pollTickCmd() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// waitForStatus blocks on the next status event. A closed channel ends the drain.
func waitForStatus(events <-chan status.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return statusMsg{event: ev}
	}
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.opts.Engine == nil {
			return m, nil
		}
		// Resize events arrive in bursts; only the last one is acted on.
		m.resizeSeq++
		seq := m.resizeSeq
		return m, tea.Tick(m.opts.ResizeDebounce, func(time.Time) tea.Msg {
			return resizeSettledMsg{seq: seq}
		})

	case resizeSettledMsg:
		if msg.seq == m.resizeSeq {
			m.handleResize()
		}
		return m, nil

	case pollTickMsg:
		return m, tea.Batch(m.fetchCmd(), m.pollTickCmd())

	case workspacesMsg:
		m.applyWorkspaces(msg.list, msg.err)
		return m, nil

	case statusMsg:
		m.applyStatus(msg.event)
		return m, waitForStatus(m.opts.Events)

	case zoomSettledMsg:
		if m.dialog && msg.seq == m.zoomSeq {
			m.dialogReady = true
		}
		return m, nil

	case toastExpiredMsg:
		if !time.Now().Before(m.toastExpiry) {
			m.toast = ""
		}
		return m, nil

	case tea.MouseMsg:
		if m.dialog || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			row := msg.Y - layout.ListChromeRows
			if idx, ok := layout.IndexAt(row, m.selected, len(m.workspaces), m.height); ok {
				m.selectIndex(idx)
			}
		case tea.MouseButtonWheelUp:
			m.selectIndex(m.selected - 1)
		case tea.MouseButtonWheelDown:
			m.selectIndex(m.selected + 1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes the help dialog
	if m.dialog {
		m.closeHelp()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.selectIndex(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.selectIndex(m.selected + 1)
	case key.Matches(msg, m.keys.Top):
		m.selectIndex(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectIndex(len(m.workspaces) - 1)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchCmd()
	case key.Matches(msg, m.keys.Open):
		if m.Standalone() {
			reason := m.opts.StandaloneReason
			if reason == "" {
				reason = "Viewer panes are off"
			}
			return m, m.showToast(reason)
		}
		m.opts.Viewer.ClearTarget()
		m.showSelected()
	case key.Matches(msg, m.keys.Help):
		return m, m.openHelp()
	}
	return m, nil
}

// selectIndex moves the selection and shows the newly selected workspace.
func (m *AppModel) selectIndex(i int) {
	if len(m.workspaces) == 0 {
		return
	}
	i = max(0, min(i, len(m.workspaces)-1))
	if i == m.selected {
		return
	}
	m.selected = i
	m.showSelected()
}

// SelectedKey returns the key of the selected workspace, or "".
func (m AppModel) SelectedKey() string {
	if m.selected < 0 || m.selected >= len(m.workspaces) {
		return ""
	}
	return m.workspaces[m.selected].Key
}

// showSelected points the viewers at the selected workspace. Showing the
// workspace already displayed issues no tmux commands.
func (m *AppModel) showSelected() {
	if m.Standalone() || len(m.workspaces) == 0 {
		return
	}
	ws := m.workspaces[m.selected]
	if m.opts.Viewer.CurrentTarget() == ws.Key {
		return
	}
	if !m.opts.Viewer.Show(m.ctx, m.panes, panes.Target{Key: ws.Key, Dir: ws.Path}) {
		LogWarn("could not show %s", ws.Key)
	}
	m.opts.Engine.LabelViewers(m.ctx, ws.Key, string(m.statuses[ws.Key]))
}

func (m *AppModel) applyWorkspaces(list []workspace.Workspace, err error) {
	if err != nil {
		LogWarn("workspace list: %v", err)
		m.listErr = err
		return
	}
	m.listErr = nil
	m.loaded = true

	prev := m.SelectedKey()
	m.workspaces = list
	m.selected = max(0, min(m.selected, len(list)-1))
	for i, ws := range list {
		if ws.Key == prev {
			m.selected = i
			break
		}
	}
	m.showSelected()
}

func (m *AppModel) applyStatus(ev status.Event) {
	if ev.Removed {
		delete(m.statuses, ev.Workspace)
	} else {
		m.statuses[ev.Workspace] = ev.Status
	}
	LogDebug("status %s -> %q tool=%q", ev.Workspace, ev.Status, ev.Tool)

	if !m.Standalone() && ev.Workspace == m.opts.Viewer.CurrentTarget() {
		m.opts.Engine.LabelViewers(m.ctx, ev.Workspace, string(m.statuses[ev.Workspace]))
	}
}

func (m *AppModel) handleResize() {
	if m.Standalone() {
		return
	}
	set, action, err := m.opts.Engine.HandleResize(m.ctx, m.panes, len(m.workspaces))
	if err != nil {
		LogWarn("resize: %v", err)
	}
	m.panes = set
	LogDebug("resize handled: %s", action)

	if action == layout.ResizeRebuild {
		m.opts.Viewer.ClearTarget()
		m.showSelected()
	}
}

// openHelp zooms the list pane and shows the help dialog once the zoom settles.
func (m *AppModel) openHelp() tea.Cmd {
	m.dialog = true
	m.dialogReady = false
	m.zoomSeq++

	if m.Standalone() {
		m.dialogReady = true
		return nil
	}
	if err := m.opts.Engine.ZoomPane(m.ctx, m.panes.List); err != nil {
		LogWarn("zoom for help: %v", err)
		m.dialogReady = true
		return nil
	}
	seq := m.zoomSeq
	return tea.Tick(m.opts.ZoomSettle, func(time.Time) tea.Msg {
		return zoomSettledMsg{seq: seq}
	})
}

func (m *AppModel) closeHelp() {
	m.dialog = false
	m.dialogReady = false
	if m.Standalone() {
		return
	}
	if err := m.opts.Engine.UnzoomPane(m.ctx, m.panes.List); err != nil {
		LogWarn("unzoom after help: %v", err)
	}
}

func (m *AppModel) showToast(msg string) tea.Cmd {
	m.toast = msg
	m.toastExpiry = time.Now().Add(toastDuration)
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}
