package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui"
)

// Model renders a board snapshot as side-by-side list columns and tracks the
// cursor and the set of marked cards.
type Model struct {
	snap    *model.BoardSnapshot
	keys    *keys.KeyMap
	col     int
	cursors map[string]int
	marked  map[string]bool
	offset  int
	width   int
	height  int
	now     func() time.Time
}

// New creates an empty board view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:    k,
		cursors: make(map[string]int),
		marked:  make(map[string]bool),
		width:   width,
		height:  height,
		now:     time.Now,
	}
}

// SetSnapshot replaces the rendered board. The cursor is clamped and marks
// on cards that no longer exist are dropped.
func (m *Model) SetSnapshot(snap *model.BoardSnapshot) {
	m.snap = snap
	if snap == nil {
		m.col = 0
		m.marked = make(map[string]bool)
		return
	}

	if m.col >= len(snap.Lists) {
		m.col = len(snap.Lists) - 1
	}
	if m.col < 0 {
		m.col = 0
	}

	present := make(map[string]bool)
	for _, l := range snap.Lists {
		if c := m.cursors[l.ID]; c >= len(l.Cards) {
			m.cursors[l.ID] = max(len(l.Cards)-1, 0)
		}
		for _, c := range l.Cards {
			present[c.ID] = true
		}
	}
	for id := range m.marked {
		if !present[id] {
			delete(m.marked, id)
		}
	}
	m.scrollToFocus()
}

// Snapshot returns the board currently rendered.
func (m Model) Snapshot() *model.BoardSnapshot {
	return m.snap
}

// SelectedList returns the focused list.
func (m Model) SelectedList() (model.ListWithCards, bool) {
	if m.snap == nil || len(m.snap.Lists) == 0 {
		return model.ListWithCards{}, false
	}
	return m.snap.Lists[m.col], true
}

// SelectedCard returns the card under the cursor.
func (m Model) SelectedCard() (model.Card, bool) {
	l, ok := m.SelectedList()
	if !ok || len(l.Cards) == 0 {
		return model.Card{}, false
	}
	return l.Cards[m.cursors[l.ID]], true
}

// NeighborList returns the list delta columns away from the focused one.
func (m Model) NeighborList(delta int) (model.List, bool) {
	if m.snap == nil {
		return model.List{}, false
	}
	i := m.col + delta
	if i < 0 || i >= len(m.snap.Lists) {
		return model.List{}, false
	}
	return m.snap.Lists[i].List, true
}

// FocusList moves the focus to the list with the given id.
func (m *Model) FocusList(id string) {
	if m.snap == nil {
		return
	}
	for i, l := range m.snap.Lists {
		if l.ID == id {
			m.col = i
			m.scrollToFocus()
			return
		}
	}
}

// ToggleMark flips the mark on the selected card.
func (m *Model) ToggleMark() {
	c, ok := m.SelectedCard()
	if !ok {
		return
	}
	if m.marked[c.ID] {
		delete(m.marked, c.ID)
		return
	}
	m.marked[c.ID] = true
}

// ClearMarks removes every mark.
func (m *Model) ClearMarks() {
	m.marked = make(map[string]bool)
}

// MarkedCount returns the number of marked cards.
func (m Model) MarkedCount() int {
	return len(m.marked)
}

// IsMarked reports whether the card is marked.
func (m Model) IsMarked(id string) bool {
	return m.marked[id]
}

// MarkedOrSelected returns the ids of marked cards in board order, or the
// selected card when nothing is marked.
func (m Model) MarkedOrSelected() []string {
	if len(m.marked) == 0 {
		if c, ok := m.SelectedCard(); ok {
			return []string{c.ID}
		}
		return nil
	}

	ids := make([]string, 0, len(m.marked))
	for _, l := range m.snap.Lists {
		for _, c := range l.Cards {
			if m.marked[c.ID] {
				ids = append(ids, c.ID)
			}
		}
	}
	return ids
}

// Update handles navigation and marking keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.snap == nil {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(km, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(km, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		m.scrollToFocus()
	case key.Matches(km, m.keys.Right):
		if m.col < len(m.snap.Lists)-1 {
			m.col++
		}
		m.scrollToFocus()
	case key.Matches(km, m.keys.Mark):
		m.ToggleMark()
		m.moveCursor(1)
	case key.Matches(km, m.keys.ClearMarks):
		m.ClearMarks()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	l, ok := m.SelectedList()
	if !ok || len(l.Cards) == 0 {
		return
	}
	c := m.cursors[l.ID] + delta
	if c < 0 {
		c = 0
	}
	if c >= len(l.Cards) {
		c = len(l.Cards) - 1
	}
	m.cursors[l.ID] = c
}

// scrollToFocus keeps the focused column inside the visible window.
func (m *Model) scrollToFocus() {
	if m.snap == nil {
		return
	}
	visible, _ := ui.NewLayout(m.width, m.height).Columns(len(m.snap.Lists))
	if visible == 0 {
		m.offset = 0
		return
	}
	if m.col < m.offset {
		m.offset = m.col
	}
	if m.col >= m.offset+visible {
		m.offset = m.col - visible + 1
	}
}

// SetSize updates the dimensions of the board area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToFocus()
}

// View renders the visible columns.
func (m Model) View() string {
	if m.snap == nil {
		return theme.DimmedStyle.Render("Loading board...")
	}
	if len(m.snap.Lists) == 0 {
		return theme.DimmedStyle.Render("This board has no lists. Press N to add one.")
	}

	visible, width := ui.NewLayout(m.width, m.height).Columns(len(m.snap.Lists))
	end := min(m.offset+visible, len(m.snap.Lists))

	cols := make([]string, 0, visible)
	for i := m.offset; i < end; i++ {
		cols = append(cols, m.renderColumn(i, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(i, width int) string {
	l := m.snap.Lists[i]
	focused := i == m.col

	style := theme.ColumnStyle
	if focused {
		style = theme.FocusedColumnStyle
	}
	// border and padding take four cells
	inner := max(width-4, 1)

	var b strings.Builder
	b.WriteString(theme.ColumnTitleStyle.Render(
		truncate(fmt.Sprintf("%s (%d)", l.Title, len(l.Cards)), inner),
	))
	b.WriteString("\n")

	if len(l.Cards) == 0 {
		b.WriteString(theme.DimmedStyle.Render("empty"))
	}
	for j, c := range l.Cards {
		if j > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderCard(c, focused && j == m.cursors[l.ID], inner))
	}

	return style.
		Width(width - 2).
		Height(max(m.height-2, 1)).
		Render(b.String())
}

func (m Model) renderCard(c model.Card, selected bool, width int) string {
	mark := "  "
	if m.marked[c.ID] {
		mark = theme.MarkStyle.Render("* ")
	}

	title := c.Title
	if badge := theme.PriorityBadge(c.Priority); badge != "" {
		title = theme.PriorityStyle(c.Priority).Render(badge) + " " + title
	}
	line := mark + truncate(title, width-2)

	if c.DueDate != nil {
		due := c.DueDate.Format("Jan 2")
		if c.IsOverdue(m.now()) {
			line += "\n  " + theme.OverdueStyle.Render("due "+due)
		} else {
			line += "\n  " + theme.DueDateStyle.Render("due "+due)
		}
	}

	switch {
	case selected:
		return theme.SelectedCardStyle.Render(line)
	case c.IsArchived():
		return theme.DimmedStyle.Render(line)
	default:
		return line
	}
}

// truncate shortens s to at most n display cells, adding an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
