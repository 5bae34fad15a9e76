package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/theme"
)

// minColumnWidth keeps narrow terminals readable by letting columns scroll.
const minColumnWidth = 24

// Layout manages the terminal frame: a header, the board area and a status
// bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the board area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// Columns returns how many list columns fit side by side and the width of
// each, given the number of lists on the board.
func (l Layout) Columns(lists int) (visible, width int) {
	if lists <= 0 {
		return 0, l.Width
	}
	visible = l.Width / minColumnWidth
	if visible < 1 {
		visible = 1
	}
	if visible > lists {
		visible = lists
	}
	return visible, l.Width / visible
}

// RenderHeader renders the top header bar with a title on the left and a
// short status on the right.
func (l Layout) RenderHeader(title, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	return l.fill(theme.HeaderStyle, titleRendered, statusRendered)
}

// RenderStatusBar renders the bottom bar with keyboard hints, or with the
// last error when isErr is set.
func (l Layout) RenderStatusBar(text string, isErr bool) string {
	style := theme.StatusBarStyle
	if isErr {
		style = theme.ErrorBarStyle
	}
	return l.fill(style, style.Render(text), "")
}

// fill pads between left and right with the style's background so the bar
// spans the full width.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
