package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pappardelle/pappardelle/internal/status"
)

// Colors
var (
	ColorBusy      = lipgloss.Color("#00FF00") // Green
	ColorWaiting   = lipgloss.Color("#FFFF00") // Yellow
	ColorApproval  = lipgloss.Color("#FF8700") // Orange
	ColorError     = lipgloss.Color("#FF0000") // Red
	ColorInactive  = lipgloss.Color("#808080") // Gray
	ColorAccent    = lipgloss.Color("#FF00FF") // Magenta
	ColorBorder    = lipgloss.Color("#444444") // Dark gray
	ColorFocus     = lipgloss.Color("#FFFFFF") // White
	ColorSelection = lipgloss.Color("#3A3A5A")
)

// Status indicators
const (
	IndicatorBusy     = "●"
	IndicatorWaiting  = "◉"
	IndicatorApproval = "◆"
	IndicatorError    = "✖"
	IndicatorEnded    = "○"
	IndicatorUnknown  = "◌"
)

// StatusStyle returns the styled status indicator for a workspace.
func StatusStyle(s status.Status) string {
	switch s {
	case status.Processing, status.RunningTool, status.Compacting:
		return lipgloss.NewStyle().Foreground(ColorBusy).Render(IndicatorBusy)
	case status.WaitingForInput:
		return lipgloss.NewStyle().Foreground(ColorWaiting).Render(IndicatorWaiting)
	case status.WaitingForApproval:
		return lipgloss.NewStyle().Foreground(ColorApproval).Render(IndicatorApproval)
	case status.Error:
		return lipgloss.NewStyle().Foreground(ColorError).Render(IndicatorError)
	case status.Ended:
		return lipgloss.NewStyle().Foreground(ColorInactive).Render(IndicatorEnded)
	default:
		return lipgloss.NewStyle().Foreground(ColorInactive).Render(IndicatorUnknown)
	}
}

// List styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	HeaderHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	RowStyle = lipgloss.NewStyle()

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorSelection).
				Foreground(ColorFocus).
				Bold(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

// Dialog styles
var (
	DialogBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginBottom(1)

	DialogFooter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	ToastStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(lipgloss.Color("#FBBF24")).
			Padding(0, 1).
			Bold(true)
)
