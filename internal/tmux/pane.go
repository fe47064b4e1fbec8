package tmux

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// RoleOption is the pane option recording which dashboard role a pane plays.
const RoleOption = "@pappardelle-role"

// LabelOption is the pane option rendered in the pane border.
const LabelOption = "@pappardelle-label"

const paneListFormat = "#{pane_id}\t#{pane_active}\t#{pane_width}\t#{pane_height}\t#{" + RoleOption + "}"

// PaneInfo describes a tmux pane.
type PaneInfo struct {
	ID     string // e.g., "%0"
	Active bool
	Width  int
	Height int
	Role   string // value of RoleOption, empty for foreign panes
}

// SplitDirection selects how split-window divides the target pane.
type SplitDirection string

const (
	// SplitHorizontal places the new pane to the right (-h).
	SplitHorizontal SplitDirection = "-h"
	// SplitVertical places the new pane below (-v).
	SplitVertical SplitDirection = "-v"
)

// SplitOptions describes a split-window call.
type SplitOptions struct {
	Target    string
	Direction SplitDirection
	Dir       string // working directory of the new pane
	Size      int    // columns for -h, rows for -v; zero lets tmux decide
}

// SplitPane splits opts.Target and returns the new pane's ID (e.g., "%3").
func (c *Client) SplitPane(ctx context.Context, opts SplitOptions) (string, error) {
	args := []string{"split-window", string(opts.Direction), "-t", opts.Target}
	if opts.Dir != "" {
		args = append(args, "-c", opts.Dir)
	}
	if opts.Size > 0 {
		args = append(args, "-l", strconv.Itoa(opts.Size))
	}
	args = append(args, "-P", "-F", "#{pane_id}")

	out, err := c.runHeavy(ctx, args...)
	if err != nil {
		return "", err
	}
	return parsePaneID(out)
}

// ResizePaneWidth sets a pane's width in columns.
func (c *Client) ResizePaneWidth(ctx context.Context, paneID string, cols int) error {
	_, err := c.run(ctx, "resize-pane", "-t", paneID, "-x", strconv.Itoa(cols))
	return err
}

// ResizePaneHeight sets a pane's height in rows.
func (c *Client) ResizePaneHeight(ctx context.Context, paneID string, rows int) error {
	_, err := c.run(ctx, "resize-pane", "-t", paneID, "-y", strconv.Itoa(rows))
	return err
}

// WindowZoomed reports whether the window containing paneID is zoomed.
func (c *Client) WindowZoomed(ctx context.Context, paneID string) (bool, error) {
	out, err := c.run(ctx, "display-message", "-p", "-t", paneID, "#{window_zoomed_flag}")
	if err != nil {
		return false, err
	}
	return parseFlag(out)
}

// ToggleZoom toggles the zoom state of paneID's window.
func (c *Client) ToggleZoom(ctx context.Context, paneID string) error {
	_, err := c.run(ctx, "resize-pane", "-Z", "-t", paneID)
	return err
}

// KillPane destroys a pane by ID.
func (c *Client) KillPane(ctx context.Context, paneID string) error {
	_, err := c.run(ctx, "kill-pane", "-t", paneID)
	return err
}

// SelectPane focuses a pane by ID.
func (c *Client) SelectPane(ctx context.Context, paneID string) error {
	_, err := c.run(ctx, "select-pane", "-t", paneID)
	return err
}

// SetPaneOption sets a user-defined pane option (e.g., @pappardelle-role).
func (c *Client) SetPaneOption(ctx context.Context, paneID, key, value string) error {
	_, err := c.run(ctx, "set-option", "-p", "-t", paneID, key, value)
	return err
}

// ListPanes returns all panes in the window containing target.
func (c *Client) ListPanes(ctx context.Context, target string) ([]PaneInfo, error) {
	out, err := c.run(ctx, "list-panes", "-t", target, "-F", paneListFormat)
	if err != nil {
		return nil, err
	}
	return parsePaneList(out)
}

// PaneTTY returns the terminal device backing paneID.
func (c *Client) PaneTTY(ctx context.Context, paneID string) (string, error) {
	out, err := c.run(ctx, "display-message", "-p", "-t", paneID, "#{pane_tty}")
	if err != nil {
		return "", err
	}
	return parseTTY(out)
}

// WindowSize returns the size of the window containing target. It asks tmux
// directly, which stays correct while a split is still settling.
func (c *Client) WindowSize(ctx context.Context, target string) (cols, rows int, err error) {
	args := []string{"display-message", "-p"}
	if target != "" {
		args = append(args, "-t", target)
	}
	args = append(args, "#{window_width} #{window_height}")

	out, err := c.run(ctx, args...)
	if err != nil {
		return 0, 0, err
	}
	return parseWindowSize(out)
}

// SendKeys sends keystrokes to a pane.
func (c *Client) SendKeys(ctx context.Context, paneID string, keys ...string) error {
	if len(keys) == 0 {
		return errors.New("send-keys: no keys")
	}
	args := append([]string{"send-keys", "-t", paneID}, keys...)
	_, err := c.run(ctx, args...)
	return err
}
