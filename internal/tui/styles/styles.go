// Package styles contains lipgloss styles for the whiteboard TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// Colors
var (
	// Subtle is for muted text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}

	// Highlight is the primary accent color
	Highlight = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#AD8CFF"}

	// ErrorColor is for error messages
	ErrorColor = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6B6B"}

	// SuccessColor is for success messages
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#73F59F"}

	// WarningColor is for warnings
	WarningColor = lipgloss.AdaptiveColor{Light: "#FF8800", Dark: "#FFB86C"}

	barBackground = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
	selectedBg    = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#333333"}
)

var groupColors = map[api.Color]lipgloss.AdaptiveColor{
	api.ColorCyan:   {Light: "#0097A7", Dark: "#4DD0E1"},
	api.ColorGreen:  {Light: "#2E7D32", Dark: "#81C784"},
	api.ColorYellow: {Light: "#B58900", Dark: "#FFD54F"},
	api.ColorPurple: {Light: "#6A1B9A", Dark: "#BA68C8"},
	api.ColorOrange: {Light: "#E65100", Dark: "#FFB74D"},
	api.ColorPink:   {Light: "#AD1457", Dark: "#F48FB1"},
}

// GroupColor returns the terminal colour of a group, falling back to Subtle
// for unknown names.
func GroupColor(c api.Color) lipgloss.AdaptiveColor {
	if col, ok := groupColors[c]; ok {
		return col
	}
	return Subtle
}

var priorityColors = map[api.Priority]lipgloss.AdaptiveColor{
	api.PriorityLow:    {Light: "#888888", Dark: "#888888"},
	api.PriorityNormal: {Light: "#246FE0", Dark: "#5297FF"},
	api.PriorityHigh:   {Light: "#EB8909", Dark: "#FF9A14"},
	api.PriorityUrgent: {Light: "#D1453B", Dark: "#FF7066"},
}

// PriorityDot renders the coloured bullet shown before a task title.
func PriorityDot(p api.Priority) string {
	col, ok := priorityColors[p]
	if !ok {
		col = priorityColors[api.PriorityNormal]
	}
	return lipgloss.NewStyle().Foreground(col).Render("●")
}

// PriorityLabel renders a priority name in its colour.
func PriorityLabel(p api.Priority) string {
	col, ok := priorityColors[p]
	if !ok {
		col = Subtle
	}
	return lipgloss.NewStyle().Foreground(col).Bold(true).Render(string(p))
}

var statusColors = map[api.UserStatus]lipgloss.AdaptiveColor{
	api.UserFree:    SuccessColor,
	api.UserBusy:    ErrorColor,
	api.UserMeeting: WarningColor,
	api.UserOnCall:  Highlight,
	api.UserAway:    {Light: "#B58900", Dark: "#FFD54F"},
	api.UserBreak:   {Light: "#0097A7", Dark: "#4DD0E1"},
	api.UserHoliday: {Light: "#AD1457", Dark: "#F48FB1"},
	api.UserOffline: Subtle,
}

// StatusDot renders a teammate's availability bullet.
func StatusDot(s api.UserStatus) string {
	col, ok := statusColors[s]
	if !ok {
		col = Subtle
	}
	return lipgloss.NewStyle().Foreground(col).Render("●")
}

// Text styles
var (
	// Title is for main titles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// Subtitle is for secondary headers
	Subtitle = lipgloss.NewStyle().
			Foreground(Subtle)

	// ErrorText is for inline validation errors
	ErrorText = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Faint is for annotations such as "added on"
	Faint = lipgloss.NewStyle().
		Foreground(Subtle).
		Italic(true)
)

// Card styles
var (
	// Card is the frame of a board column.
	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	// CardTitle is the heading inside a card; its colour is set per group.
	CardTitle = lipgloss.NewStyle().
			Bold(true)

	// TaskItem is a normal task row
	TaskItem = lipgloss.NewStyle()

	// TaskSelected is the row under the cursor
	TaskSelected = lipgloss.NewStyle().
			Bold(true).
			Background(selectedBg)

	// IntroTime is the HH:MM prefix of introduction rows
	IntroTime = lipgloss.NewStyle().
			Foreground(Highlight).
			Bold(true)

	// Empty is the placeholder of a card without rows
	Empty = lipgloss.NewStyle().
		Foreground(Subtle).
		Italic(true)
)

// CardBorder returns the card frame for a group colour, bolder when focused.
func CardBorder(c api.Color, focused bool) lipgloss.Style {
	s := Card.BorderForeground(GroupColor(c))
	if focused {
		s = s.BorderStyle(lipgloss.ThickBorder())
	}
	return s
}

// Date group header
// NOTE: No margins or borders here - they add extra lines that break viewport scroll sync.
var (
	DateGroupHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight).
		Underline(true)
)

// Status bar styles
var (
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(barBackground).
			Padding(0, 1)

	// StatusBarKey is for keyboard shortcut hints
	StatusBarKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(barBackground)

	// StatusBarText is for status bar descriptions
	StatusBarText = lipgloss.NewStyle().
			Foreground(Subtle).
			Background(barBackground)
)

// Toast styles
var (
	ToastError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ErrorColor).
			Bold(true).
			Padding(0, 1)

	ToastSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(SuccessColor).
			Bold(true).
			Padding(0, 1)
)

// Help styles
var (
	// HelpKey is for key bindings in help
	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// HelpDesc is for key binding descriptions
	HelpDesc = lipgloss.NewStyle().
			Foreground(Subtle)
)

// Input styles
var (
	// Input is the style for text inputs
	Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	// InputFocused is for focused inputs
	InputFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	// InputLabel is for input labels
	InputLabel = lipgloss.NewStyle().
			Bold(true)

	// ReadOnly frames values of completed tasks
	ReadOnly = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Subtle).
			Padding(0, 1)
)

// Dialog styles
var (
	// Dialog is the base style for dialog boxes
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	// DangerDialog frames delete confirmations
	DangerDialog = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)

	// DialogTitle is for dialog titles
	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			MarginBottom(1)
)

// Users panel styles
var (
	UsersPanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(0, 1)

	UsersPanelFocused = UsersPanel.
				BorderForeground(Highlight)

	// Me marks the signed-in user's row
	Me = lipgloss.NewStyle().
		Foreground(Highlight).
		Italic(true)
)

// Spinner style
var (
	Spinner = lipgloss.NewStyle().
		Foreground(Highlight)
)
