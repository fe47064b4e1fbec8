// Package panes carves the dashboard window into a list pane and viewer panes
// and points the viewers at workspace sessions.
//
// The Orchestrator owns pane geometry and lifecycle. The Attacher owns what
// each viewer pane displays. Both talk to tmux only through Mux, and neither
// retries a failed command: the next poll or resize corrects any drift.
package panes

import (
	"context"

	"github.com/pappardelle/pappardelle/internal/tmux"
)

// Mux is the set of tmux operations the pane engine issues.
// *tmux.Client implements it.
type Mux interface {
	Socket() string
	Prefix(ctx context.Context) (string, error)

	WindowSize(ctx context.Context, target string) (cols, rows int, err error)
	SplitPane(ctx context.Context, opts tmux.SplitOptions) (string, error)
	ResizePaneWidth(ctx context.Context, paneID string, cols int) error
	ResizePaneHeight(ctx context.Context, paneID string, rows int) error
	WindowZoomed(ctx context.Context, paneID string) (bool, error)
	ToggleZoom(ctx context.Context, paneID string) error
	KillPane(ctx context.Context, paneID string) error
	SelectPane(ctx context.Context, paneID string) error
	SetPaneOption(ctx context.Context, paneID, key, value string) error
	ListPanes(ctx context.Context, target string) ([]tmux.PaneInfo, error)
	ConfigureChrome(ctx context.Context, target string) error

	PaneTTY(ctx context.Context, paneID string) (string, error)
	ListClientTTYs(ctx context.Context) ([]string, error)
	SwitchClient(ctx context.Context, tty, session string) error
	SendKeys(ctx context.Context, paneID string, keys ...string) error
}

var _ Mux = (*tmux.Client)(nil)
