package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
	boardsync "github.com/nhle/kanban/internal/sync"
	"github.com/nhle/kanban/internal/ui/cardform"
	"github.com/nhle/kanban/internal/ui/command"
	"github.com/nhle/kanban/internal/ui/listform"
	"github.com/nhle/kanban/tests/testutil"
)

type fixture struct {
	store *store.SQLStore
	board *model.Board
	todo  *model.List
	done  *model.List
	cards []*model.Card
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	todo := testutil.MustList(t, s, b.ID, "Todo")
	done := testutil.MustList(t, s, b.ID, "Done")
	return fixture{
		store: s,
		board: b,
		todo:  todo,
		done:  done,
		cards: []*model.Card{
			testutil.MustCard(t, s, todo.ID, "A"),
			testutil.MustCard(t, s, todo.ID, "B"),
			testutil.MustCard(t, s, todo.ID, "C"),
		},
	}
}

// run feeds msg into the model and executes the resulting commands until
// none is left.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for i := 0; i < 10 && msg != nil; i++ {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			return m
		}
		msg = cmd()
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	if s == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func start(t *testing.T, f fixture) Model {
	t.Helper()
	m := New(f.store, Options{BoardID: f.board.ID, ExportDir: t.TempDir()})
	m = run(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return run(t, m, m.Init()())
}

func titles(t *testing.T, s store.Store, listID string) []string {
	t.Helper()
	cards, err := s.GetCardsByList(context.Background(), listID)
	require.NoError(t, err)
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestInitLoadsBoard(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	assert.Equal(t, "Roadmap", m.boardTitle())
	assert.Equal(t, "2 lists, 3 cards", m.boardStatus())
	assert.Contains(t, m.View(), "Todo (3)")
}

func TestMoveMarkedCardsRight(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, keyPress("space"))
	m = run(t, m, keyPress("space"))
	assert.Equal(t, 2, m.board.MarkedCount())

	m = run(t, m, keyPress("L"))

	assert.Equal(t, []string{"C"}, titles(t, f.store, f.todo.ID))
	assert.Equal(t, []string{"A", "B"}, titles(t, f.store, f.done.ID))
	assert.Equal(t, []int{2}, testutil.CardOrders(t, f.store, f.todo.ID), "moves leave gaps")
	assert.Zero(t, m.board.MarkedCount())
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, "Moved 2 card(s) to Done")

	l, ok := m.board.SelectedList()
	require.True(t, ok)
	assert.Equal(t, f.done.ID, l.ID, "focus follows the moved cards")

	m = run(t, m, keyPress("R"))
	assert.Equal(t, []int{0}, testutil.CardOrders(t, f.store, f.todo.ID))
}

func TestDeleteSelectedCardRenumbers(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, keyPress("d"))

	assert.Equal(t, []string{"B", "C"}, titles(t, f.store, f.todo.ID))
	assert.Equal(t, []int{0, 1}, testutil.CardOrders(t, f.store, f.todo.ID))
	assert.Equal(t, "2 lists, 2 cards", m.boardStatus())
}

func TestArchiveAndDeleteMarked(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, keyPress("a"))
	c, err := f.store.GetCardByID(context.Background(), f.cards[0].ID)
	require.NoError(t, err)
	assert.True(t, c.IsArchived())

	m = run(t, m, keyPress("j"))
	m = run(t, m, keyPress("space"))
	m = run(t, m, keyPress("space"))
	m = run(t, m, keyPress("d"))

	assert.Equal(t, []string{"A"}, titles(t, f.store, f.todo.ID))
	assert.Contains(t, m.status, "Deleted 2 card(s)")
}

func TestPaletteCommands(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)
	ctx := context.Background()

	m = run(t, m, command.CommandMsg("assign alice bob"))
	assignees, err := f.store.GetAssigneesForCard(ctx, f.cards[0].ID)
	require.NoError(t, err)
	assert.Len(t, assignees, 2)

	m = run(t, m, command.CommandMsg("label bug Bug urgent"))
	labels, err := f.store.GetLabelsForCard(ctx, f.cards[0].ID)
	require.NoError(t, err)
	assert.Len(t, labels, 2, "labels are matched case-insensitively")

	m = run(t, m, command.CommandMsg("due 2026-12-24"))
	c, err := f.store.GetCardByID(ctx, f.cards[0].ID)
	require.NoError(t, err)
	require.NotNil(t, c.DueDate)
	assert.Equal(t, "2026-12-24", c.DueDate.Format("2006-01-02"))

	m = run(t, m, command.CommandMsg("due none"))
	c, err = f.store.GetCardByID(ctx, f.cards[0].ID)
	require.NoError(t, err)
	assert.Nil(t, c.DueDate)

	m = run(t, m, command.CommandMsg("rename Ship it"))
	c, err = f.store.GetCardByID(ctx, f.cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship it", c.Title)

	m = run(t, m, command.CommandMsg("frobnicate"))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "unknown command")
}

func TestFormsCreateListAndCard(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, listform.SubmittedMsg{Title: "Review"})
	lists, err := f.store.GetListsByBoard(context.Background(), f.board.ID)
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, "Review", lists[2].Title)
	assert.Equal(t, 2, lists[2].Order)

	l, ok := m.board.SelectedList()
	require.True(t, ok)
	assert.Equal(t, lists[2].ID, l.ID)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	m = run(t, m, cardform.CreatedMsg{Input: model.CreateCardInput{
		ListID:   l.ID,
		Title:    "Audit",
		DueDate:  &due,
		Priority: model.PriorityHigh,
	}})
	assert.Equal(t, []string{"Audit"}, titles(t, f.store, l.ID))
	assert.Equal(t, ViewBoard, m.currentView)

	m = run(t, m, cardform.EditedMsg{
		CardID:  f.cards[1].ID,
		Title:   "B2",
		Details: model.UpdateCardDetailsInput{Priority: model.PriorityLow},
	})
	c, err := f.store.GetCardByID(context.Background(), f.cards[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", c.Title)
	assert.Equal(t, model.PriorityLow, c.Priority)
}

func TestCopyListAndExport(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, keyPress("y"))
	lists, err := f.store.GetListsByBoard(context.Background(), f.board.ID)
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, "Todo copy", lists[2].Title)
	assert.Equal(t, []string{"A", "B", "C"}, titles(t, f.store, lists[2].ID))

	m = run(t, m, keyPress("x"))
	require.False(t, m.statusErr, m.status)
	_, err = os.Stat(filepath.Join(m.exportDir, "roadmap.xlsx"))
	assert.NoError(t, err)
}

func TestHelpOverlayToggles(t *testing.T) {
	f := newFixture(t)
	m := start(t, f)

	m = run(t, m, keyPress("?"))
	assert.Equal(t, ViewHelp, m.currentView)
	m = run(t, m, keyPress("?"))
	assert.Equal(t, ViewBoard, m.currentView)
}

func TestMissingBoardShowsError(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := New(s, Options{BoardID: "missing"})
	m = run(t, m, m.Init()())

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "not found")
}

func TestPolledSnapshotReplacesBoard(t *testing.T) {
	f := newFixture(t)
	m := New(f.store, Options{BoardID: f.board.ID, RefreshInterval: time.Hour})
	require.NotNil(t, m.poller)
	m = run(t, m, m.loadSnapshot()())
	assert.Equal(t, "2 lists, 3 cards", m.boardStatus())

	// another client adds a card
	testutil.MustCard(t, f.store, f.done.ID, "D")
	snap, err := f.store.GetBoardSnapshot(context.Background(), f.board.ID)
	require.NoError(t, err)

	next, cmd := m.Update(boardsync.SnapshotMsg{Snapshot: snap})
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps listening for the next change")
	assert.Equal(t, "2 lists, 4 cards", m.boardStatus())

	_, quit := m.quit()
	assert.NotNil(t, quit)
}
