package cardform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

const dateLayout = "2006-01-02"

// CreatedMsg is dispatched when the form is submitted for a new card.
type CreatedMsg struct {
	Input model.CreateCardInput
}

// EditedMsg is dispatched when the form is submitted for an existing card.
type EditedMsg struct {
	CardID  string
	Title   string
	Details model.UpdateCardDetailsInput
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    model.Priority
	dueDate     string
}

// Model is the Bubble Tea model for the card create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	listID   string
	listName string
	editID   string
	status   *string
	width    int
	height   int
}

// New creates a new card form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new card appended to listID.
func (m *Model) StartCreate(listID, listName string) tea.Cmd {
	m.listID = listID
	m.listName = listName
	m.editID = ""
	m.status = nil
	*m.fb = formBindings{priority: model.PriorityMedium}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing card's fields.
func (m *Model) StartEdit(c model.Card) tea.Cmd {
	m.listID = c.ListID
	m.editID = c.ID
	m.status = c.Status
	m.fb.title = c.Title
	m.fb.description = ""
	if c.Description != nil {
		m.fb.description = *c.Description
	}
	m.fb.priority = c.Priority
	if !m.fb.priority.Valid() {
		m.fb.priority = model.PriorityMedium
	}
	m.fb.dueDate = ""
	if c.DueDate != nil {
		m.fb.dueDate = c.DueDate.Format(dateLayout)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the card form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the card form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New card"
	if m.listName != "" {
		titleText = "New card in " + m.listName
	}
	if m.editID != "" {
		titleText = "Edit card"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render(titleText) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[model.Priority], 0, len(model.Priorities))
	for i := len(model.Priorities) - 1; i >= 0; i-- {
		p := model.Priorities[i]
		opts = append(opts, huh.NewOption(strings.ToUpper(string(p[:1]))+string(p[1:]), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(opts...).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	title := strings.TrimSpace(m.fb.title)

	var desc *string
	if d := strings.TrimSpace(m.fb.description); d != "" {
		desc = &d
	}

	var due *time.Time
	if m.fb.dueDate != "" {
		if t, err := time.Parse(dateLayout, strings.TrimSpace(m.fb.dueDate)); err == nil {
			due = &t
		}
	}

	if m.editID != "" {
		msg := EditedMsg{
			CardID: m.editID,
			Title:  title,
			Details: model.UpdateCardDetailsInput{
				Description: desc,
				Status:      m.status,
				DueDate:     due,
				Priority:    m.fb.priority,
			},
		}
		return func() tea.Msg { return msg }
	}

	msg := CreatedMsg{Input: model.CreateCardInput{
		ListID:      m.listID,
		Title:       title,
		Description: desc,
		DueDate:     due,
		Priority:    m.fb.priority,
	}}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateTitle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("title is required")
	}
	if len(s) > 255 {
		return fmt.Errorf("title must be at most 255 characters")
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
