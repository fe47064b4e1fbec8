package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pappardelle/pappardelle/internal/layout"
	"github.com/pappardelle/pappardelle/internal/tmux"
	"github.com/pappardelle/pappardelle/internal/workspace"
)

// View renders the list pane.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.dialog {
		// Drawing before the zoom lands would paint into the old pane size.
		if !m.dialogReady {
			return ""
		}
		return m.renderHelp()
	}

	view := m.padToHeight(m.renderList())
	if m.toast != "" && time.Now().Before(m.toastExpiry) {
		view = m.overlayToast(view)
	}
	return view
}

// renderList renders the header, the separator and the visible rows.
// The first two lines are the layout.ListChromeRows chrome rows.
func (m AppModel) renderList() string {
	width := max(1, m.width)
	lines := []string{
		m.renderHeader(width),
		SeparatorStyle.Render(strings.Repeat("─", width)),
	}

	switch {
	case m.listErr != nil && len(m.workspaces) == 0:
		lines = append(lines, EmptyStyle.Render(ansi.Truncate("git: "+m.listErr.Error(), width, "…")))
	case !m.loaded:
		lines = append(lines, EmptyStyle.Render(ansi.Truncate("Loading…", width, "…")))
	case len(m.workspaces) == 0:
		lines = append(lines, EmptyStyle.Render(ansi.Truncate("No worktrees", width, "…")))
	default:
		w := layout.Window(m.selected, len(m.workspaces), m.height)
		for i := 0; i < w.VisibleCount; i++ {
			ws := m.workspaces[w.ScrollOffset+i]
			lines = append(lines, m.renderRow(ws, i == w.SelectedRow, width))
		}
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) renderHeader(width int) string {
	name := m.opts.RepoName
	if name == "" {
		name = "pappardelle"
	}
	header := HeaderStyle.Render(name) + HeaderHintStyle.Render(fmt.Sprintf(" (%d)", len(m.workspaces)))
	if m.Standalone() {
		header += HeaderHintStyle.Render(" standalone")
	}
	return ansi.Truncate(header, width, "…")
}

func (m AppModel) renderRow(ws workspace.Workspace, selected bool, width int) string {
	line := StatusStyle(m.statuses[ws.Key]) + " " + ws.Key
	// Other keys already embed the branch.
	if ws.Branch != "" && workspace.IsIssueKey(ws.Key) {
		line += " " + BranchStyle.Render(ws.Branch)
	}
	line = ansi.Truncate(line, width, "…")

	if selected {
		return SelectedRowStyle.Width(width).Render(ansi.Strip(line))
	}
	return RowStyle.Render(line)
}

// padToHeight ensures the view has exactly m.height lines
func (m AppModel) padToHeight(view string) string {
	lines := strings.Split(view, "\n")
	if len(lines) > m.height && m.height > 0 {
		lines = lines[:m.height]
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// overlayToast replaces the bottom line with the toast.
func (m AppModel) overlayToast(background string) string {
	lines := strings.Split(background, "\n")
	toast := ansi.Truncate(ToastStyle.Render(m.toast), max(1, m.width), "…")
	lines[len(lines)-1] = toast
	return strings.Join(lines, "\n")
}

// renderHelp renders the help dialog centered in the zoomed pane.
func (m AppModel) renderHelp() string {
	h := m.help
	h.ShowAll = true
	h.Width = max(10, m.width-8)

	var footer []string
	footer = append(footer, fmt.Sprintf("%s (%s)", versionInfo, commitHash))
	if m.opts.RepoPath != "" {
		footer = append(footer, tmux.AbbreviatePath(m.opts.RepoPath))
	}
	if m.opts.TmuxPrefix != "" {
		footer = append(footer, "viewer detach: "+tmux.FormatPrefixHint(m.opts.TmuxPrefix)+" d")
	}
	footer = append(footer, "press any key to close")

	body := lipgloss.JoinVertical(lipgloss.Left,
		DialogTitle.Render("pappardelle"),
		h.View(m.keys),
		DialogFooter.Render(strings.Join(footer, "\n")),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, DialogBox.Render(body))
}
