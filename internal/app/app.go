package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/store"
	boardsync "github.com/nhle/kanban/internal/sync"
	"github.com/nhle/kanban/internal/ui"
	"github.com/nhle/kanban/internal/ui/board"
	"github.com/nhle/kanban/internal/ui/cardform"
	"github.com/nhle/kanban/internal/ui/command"
	helpview "github.com/nhle/kanban/internal/ui/help"
	"github.com/nhle/kanban/internal/ui/listform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
	ViewCommand
	ViewCardForm
	ViewListForm
)

// Options configures the root model.
type Options struct {
	// BoardID is the board to open.
	BoardID string

	// ExportDir receives .xlsx exports. Defaults to the working directory.
	ExportDir string

	// RefreshInterval re-reads the board in the background to show writes
	// from other clients. Zero disables polling.
	RefreshInterval time.Duration

	// Logger receives operation failures. Nil discards them.
	Logger *logrus.Entry
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	boardID      string
	exportDir    string
	log          *logrus.Entry
	keys         *keys.KeyMap
	board        board.Model
	helpView     helpview.Model
	commandView  command.Model
	cardForm     cardform.Model
	listForm     listform.Model
	poller       *boardsync.Poller
	ready        bool
	status       string
	statusErr    bool
}

// New creates a new root application model for one board.
func New(s store.Store, opts Options) Model {
	k := keys.DefaultKeyMap()

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := Model{
		currentView: ViewBoard,
		store:       s,
		boardID:     opts.BoardID,
		exportDir:   exportDir,
		log:         log.WithField("component", "tui"),
		keys:        k,
		board:       board.New(k, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
		cardForm:    cardform.New(80, 22),
		listForm:    listform.New(80, 22),
	}
	if opts.RefreshInterval > 0 {
		m.poller = boardsync.New(s, opts.BoardID, opts.RefreshInterval, m.log)
	}
	return m
}

// Init loads the board and starts watching it for outside changes.
func (m Model) Init() tea.Cmd {
	if m.poller == nil {
		return m.loadSnapshot()
	}
	return tea.Batch(m.loadSnapshot(), m.poller.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.board.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.cardForm.SetSize(w, h)
		m.listForm.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.board.SetSnapshot(msg.snap)
		if msg.focusList != "" {
			m.board.FocusList(msg.focusList)
		}
		if m.poller != nil {
			m.poller.Observe(msg.snap)
		}
		return m, nil

	case boardsync.SnapshotMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.board.SetSnapshot(msg.Snapshot)
		}
		return m, m.poller.WaitForNextResult()

	case opResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, m.loadSnapshot()
		}
		m.status, m.statusErr = msg.status, false
		if msg.clearMarks {
			m.board.ClearMarks()
		}
		if msg.focusList != "" {
			return m, m.loadSnapshotFocus(msg.focusList)
		}
		return m, m.loadSnapshot()

	case cardform.CreatedMsg:
		m.currentView = ViewBoard
		return m, m.createCard(msg.Input)

	case cardform.EditedMsg:
		m.currentView = ViewBoard
		return m, m.editCard(msg)

	case cardform.CancelMsg, listform.CancelMsg, command.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case listform.SubmittedMsg:
		m.currentView = ViewBoard
		return m, m.createList(msg.Title)

	case command.CommandMsg:
		m.currentView = ViewBoard
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		switch m.currentView {
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.currentView = m.previousView
			}
			return m, nil
		case ViewBoard:
			return m.handleBoardKeys(msg)
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleBoardKeys maps board shortcuts to store operations.
func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		m.board.ClearMarks()
		m.status, m.statusErr = "", false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.poller != nil {
			m.poller.Refresh()
		}
		return m, m.loadSnapshot()

	case key.Matches(msg, m.keys.NewList):
		m.currentView = ViewListForm
		cmd := m.listForm.Start()
		return m, cmd

	case key.Matches(msg, m.keys.NewCard):
		l, ok := m.board.SelectedList()
		if !ok {
			m.setError(errNoList)
			return m, nil
		}
		m.currentView = ViewCardForm
		cmd := m.cardForm.StartCreate(l.ID, l.Title)
		return m, cmd

	case key.Matches(msg, m.keys.EditCard):
		c, ok := m.board.SelectedCard()
		if !ok {
			return m, nil
		}
		m.currentView = ViewCardForm
		cmd := m.cardForm.StartEdit(c)
		return m, cmd

	case key.Matches(msg, m.keys.MoveLeft):
		cmd := m.moveToNeighbor(-1)
		return m, cmd

	case key.Matches(msg, m.keys.MoveRight):
		cmd := m.moveToNeighbor(1)
		return m, cmd

	case key.Matches(msg, m.keys.Archive):
		cmd := m.archiveCards(m.board.MarkedOrSelected())
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		cmd := m.deleteSelection()
		return m, cmd

	case key.Matches(msg, m.keys.CopyList):
		l, ok := m.board.SelectedList()
		if !ok {
			m.setError(errNoList)
			return m, nil
		}
		return m, m.copyList(l.ID)

	case key.Matches(msg, m.keys.Renumber):
		return m, m.renumberBoard()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportBoard()
	}

	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}

// quit stops background polling and exits the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.poller != nil {
		m.poller.Stop()
	}
	return m, tea.Quit
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.board, cmd = m.board.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewCardForm:
		m.cardForm, cmd = m.cardForm.Update(msg)
	case ViewListForm:
		m.listForm, cmd = m.listForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.boardTitle(), m.boardStatus())
	statusBar := m.layout.RenderStatusBar(m.statusText(), m.statusErr)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCardForm:
		return m.cardForm.View()
	case ViewListForm:
		return m.listForm.View()
	default:
		return m.board.View()
	}
}

func (m Model) boardTitle() string {
	if snap := m.board.Snapshot(); snap != nil {
		return snap.Board.Title
	}
	return "Kanban"
}

// boardStatus summarizes the board for the right side of the header.
func (m Model) boardStatus() string {
	snap := m.board.Snapshot()
	if snap == nil {
		return ""
	}
	cards := 0
	for _, l := range snap.Lists {
		cards += len(l.Cards)
	}
	s := fmt.Sprintf("%d lists, %d cards", len(snap.Lists), cards)
	if n := m.board.MarkedCount(); n > 0 {
		s += fmt.Sprintf(", %d marked", n)
	}
	return s
}

// statusText returns the last result, or keyboard hints for the view.
func (m Model) statusText() string {
	if m.status != "" && m.currentView == ViewBoard {
		return m.status
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc cancel"
	case ViewCardForm, ViewListForm:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | n new card | space mark | H/L move | : command"
	}
}

func (m *Model) setError(err error) {
	m.log.WithError(err).Warn("operation failed")
	m.status = err.Error()
	m.statusErr = true
}
