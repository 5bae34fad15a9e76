package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/export"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/ui/cardform"
	"github.com/nhle/kanban/internal/ui/command"
)

var (
	errNoList = errors.New("board has no lists")
	errNoCard = errors.New("no card selected")
)

// snapshotLoadedMsg carries a freshly read board.
type snapshotLoadedMsg struct {
	snap      *model.BoardSnapshot
	focusList string
	err       error
}

// opResultMsg is sent after a store mutation finishes. The board is
// reloaded after every result, failed or not.
type opResultMsg struct {
	status     string
	clearMarks bool
	focusList  string
	err        error
}

func (m Model) loadSnapshot() tea.Cmd {
	return m.loadSnapshotFocus("")
}

func (m Model) loadSnapshotFocus(listID string) tea.Cmd {
	s, id := m.store, m.boardID
	return func() tea.Msg {
		snap, err := s.GetBoardSnapshot(context.Background(), id)
		return snapshotLoadedMsg{snap: snap, focusList: listID, err: err}
	}
}

// bulkResult converts a bulk outcome into a status message.
func bulkResult(res model.BulkResult, err error) tea.Msg {
	if err != nil {
		return opResultMsg{err: err}
	}
	return opResultMsg{status: res.Message, clearMarks: true}
}

func (m Model) createList(title string) tea.Cmd {
	s, boardID := m.store, m.boardID
	return func() tea.Msg {
		l, err := s.CreateList(context.Background(), model.CreateListInput{BoardID: boardID, Title: title})
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Created list %q", l.Title), focusList: l.ID}
	}
}

func (m Model) copyList(listID string) tea.Cmd {
	s, boardID := m.store, m.boardID
	return func() tea.Msg {
		l, err := s.CopyList(context.Background(), model.CopyListInput{ID: listID, BoardID: boardID})
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Created %q", l.Title), focusList: l.ID}
	}
}

func (m Model) createCard(in model.CreateCardInput) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		c, err := s.CreateCard(context.Background(), in)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Created card %q", c.Title)}
	}
}

func (m Model) editCard(msg cardform.EditedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := s.UpdateCardTitle(ctx, msg.CardID, msg.Title); err != nil {
			return opResultMsg{err: err}
		}
		c, err := s.UpdateCardDetails(ctx, msg.CardID, msg.Details)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Updated card %q", c.Title)}
	}
}

// moveToNeighbor moves the marked or selected cards to the end of the list
// delta columns away.
func (m *Model) moveToNeighbor(delta int) tea.Cmd {
	target, ok := m.board.NeighborList(delta)
	if !ok {
		return nil
	}
	ids := m.board.MarkedOrSelected()
	if len(ids) == 0 {
		m.setError(errNoCard)
		return nil
	}

	s := m.store
	in := model.MoveCardsInput{CardIDs: ids, TargetListID: target.ID}
	return func() tea.Msg {
		res, err := s.MoveCards(context.Background(), in)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{
			status:     fmt.Sprintf("%s to %s", res.Message, target.Title),
			clearMarks: true,
			focusList:  target.ID,
		}
	}
}

func (m *Model) archiveCards(ids []string) tea.Cmd {
	if len(ids) == 0 {
		m.setError(errNoCard)
		return nil
	}
	s := m.store
	return func() tea.Msg {
		return bulkResult(s.ArchiveCards(context.Background(), model.CardIDsInput{CardIDs: ids}))
	}
}

// deleteSelection deletes the marked cards in bulk, or the selected card
// alone with its list renumbered.
func (m *Model) deleteSelection() tea.Cmd {
	s := m.store
	if m.board.MarkedCount() > 0 {
		ids := m.board.MarkedOrSelected()
		return func() tea.Msg {
			return bulkResult(s.DeleteCards(context.Background(), model.CardIDsInput{CardIDs: ids}))
		}
	}

	c, ok := m.board.SelectedCard()
	if !ok {
		m.setError(errNoCard)
		return nil
	}
	return func() tea.Msg {
		if err := s.DeleteCard(context.Background(), c.ListID, c.ID); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Deleted card %q", c.Title)}
	}
}

func (m Model) renumberBoard() tea.Cmd {
	s, boardID := m.store, m.boardID
	return func() tea.Msg {
		n, err := s.RenumberBoard(context.Background(), boardID)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Renumbered board, %d position(s) changed", n)}
	}
}

func (m Model) exportBoard() tea.Cmd {
	s, boardID, dir := m.store, m.boardID, m.exportDir
	return func() tea.Msg {
		snap, err := s.GetBoardSnapshot(context.Background(), boardID)
		if err != nil {
			return opResultMsg{err: err}
		}

		path := filepath.Join(dir, export.FileName(snap.Board))
		f, err := os.Create(path)
		if err != nil {
			return opResultMsg{err: fmt.Errorf("creating export file: %w", err)}
		}
		if err := export.WriteBoard(f, snap); err != nil {
			f.Close()
			return opResultMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return opResultMsg{err: fmt.Errorf("closing export file: %w", err)}
		}
		return opResultMsg{status: "Exported to " + path}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	cmd, err := command.Parse(input)
	if err != nil {
		m.setError(err)
		return nil
	}

	switch cmd.Kind {
	case command.KindQuit:
		_, quit := m.quit()
		return quit
	case command.KindRefresh:
		return m.loadSnapshot()
	case command.KindRenumber:
		return m.renumberBoard()
	case command.KindRename:
		c, ok := m.board.SelectedCard()
		if !ok {
			m.setError(errNoCard)
			return nil
		}
		return m.renameCard(c.ID, cmd.Text)
	}

	ids := m.board.MarkedOrSelected()
	if len(ids) == 0 {
		m.setError(errNoCard)
		return nil
	}

	s, boardID := m.store, m.boardID
	switch cmd.Kind {
	case command.KindAssign:
		in := model.AssignUsersInput{CardIDs: ids, UserIDs: cmd.Args}
		return func() tea.Msg {
			return bulkResult(s.AssignUsers(context.Background(), in))
		}

	case command.KindLabel:
		names := cmd.Args
		return func() tea.Msg {
			ctx := context.Background()
			labelIDs := make([]string, 0, len(names))
			for _, name := range names {
				l, err := s.EnsureLabel(ctx, boardID, name, "")
				if err != nil {
					return opResultMsg{err: err}
				}
				labelIDs = append(labelIDs, l.ID)
			}
			return bulkResult(s.AddLabels(ctx, model.AddLabelsInput{CardIDs: ids, LabelIDs: labelIDs}))
		}

	case command.KindDue:
		in := model.SetDueDateInput{CardIDs: ids, DueDate: cmd.Due}
		return func() tea.Msg {
			return bulkResult(s.SetDueDate(context.Background(), in))
		}
	}

	m.setError(fmt.Errorf("unsupported command %q", strings.Fields(input)[0]))
	return nil
}

func (m Model) renameCard(id, title string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		c, err := s.UpdateCardTitle(context.Background(), id, title)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("Renamed card to %q", c.Title)}
	}
}
