package tmux

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// tmux colours shared with the list styles.
const (
	colorGreen    = "colour46"  // processing, running tool
	colorYellow   = "colour226" // waiting for input
	colorOrange   = "colour208" // waiting for approval
	colorGray     = "colour240" // ended, unknown, inactive border
	colorRed      = "colour196" // error
	colorMagenta  = "colour201" // workspace name
	colorHintGray = "colour244" // role text
	colorCyan     = "colour38"  // active border
)

// statusColor maps a workspace status to its dot colour.
func statusColor(status string) string {
	switch status {
	case "processing", "running_tool", "compacting":
		return colorGreen
	case "waiting_for_input":
		return colorYellow
	case "waiting_for_approval":
		return colorOrange
	case "error":
		return colorRed
	default:
		return colorGray
	}
}

// FormatPaneLabel renders the text for a pane's top border with tmux color codes.
// An empty workspace renders the role alone.
func FormatPaneLabel(role, workspace, status string) string {
	var parts []string
	if workspace != "" {
		parts = append(parts, fmt.Sprintf("#[fg=%s]●#[default]", statusColor(status)))
		parts = append(parts, fmt.Sprintf("#[fg=%s]%s#[default]", colorMagenta, workspace))
	}
	parts = append(parts, fmt.Sprintf("#[fg=%s]%s#[default]", colorHintGray, role))
	return "─── " + strings.Join(parts, " ") + " ───"
}

// FormatPrefixHint converts a tmux prefix like "C-b" to a display hint like "^b".
func FormatPrefixHint(prefix string) string {
	if strings.HasPrefix(prefix, "C-") {
		return "^" + strings.TrimPrefix(prefix, "C-")
	}
	return prefix
}

// EscapeShellArg quotes a string for safe embedding in shell commands.
// Uses single-quoting with proper escaping of embedded single quotes.
func EscapeShellArg(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// AbbreviatePath shortens a path by abbreviating all directory components
// except the last to their first character. Replaces $HOME with ~.
// Example: /Users/sam/git/oss/pappardelle → ~/g/o/pappardelle
func AbbreviatePath(path string) string {
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}

	parts := strings.Split(path, "/")
	if len(parts) <= 1 {
		return path
	}

	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "" || parts[i] == "~" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(parts[i])
		if r != utf8.RuneError {
			parts[i] = string(r)
		}
	}

	return strings.Join(parts, "/")
}

// ConfigureChrome turns on pane border labels for the window containing target.
// Each pane's border shows its LabelOption.
func (c *Client) ConfigureChrome(ctx context.Context, target string) error {
	options := []struct{ key, value string }{
		{"pane-border-status", "top"},
		{"pane-border-format", " #{" + LabelOption + "} "},
		{"pane-active-border-style", "fg=" + colorCyan},
		{"pane-border-style", "fg=" + colorGray},
	}
	for _, opt := range options {
		if _, err := c.run(ctx, "set-option", "-w", "-t", target, opt.key, opt.value); err != nil {
			return errors.Wrapf(err, "set %s", opt.key)
		}
	}
	return nil
}
