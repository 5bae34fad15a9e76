package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/tests/testutil"
)

func listOrders(t *testing.T, s store.Store, boardID string) ([]string, []int) {
	t.Helper()
	lists, err := s.GetListsByBoard(context.Background(), boardID)
	require.NoError(t, err)
	titles := make([]string, len(lists))
	orders := make([]int, len(lists))
	for i, l := range lists {
		titles[i] = l.Title
		orders[i] = l.Order
	}
	return titles, orders
}

func TestCreateList_AppendsAtEnd(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")

	first := testutil.MustList(t, s, b.ID, "Backlog")
	second := testutil.MustList(t, s, b.ID, "Doing")
	third := testutil.MustList(t, s, b.ID, "Done")

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 2, third.Order)

	titles, orders := listOrders(t, s, b.ID)
	assert.Equal(t, []string{"Backlog", "Doing", "Done"}, titles)
	assert.Equal(t, []int{0, 1, 2}, orders)
}

func TestCreateList_RejectsBlankTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")

	_, err := s.CreateList(context.Background(), model.CreateListInput{BoardID: b.ID, Title: "   "})
	assert.ErrorIs(t, err, store.ErrEmptyTitle)

	_, err = s.CreateList(context.Background(), model.CreateListInput{Title: "No board"})
	assert.Error(t, err)
}

func TestUpdateListTitle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Backlog")

	updated, err := s.UpdateListTitle(ctx, l.ID, "  Icebox ")
	require.NoError(t, err)
	assert.Equal(t, "Icebox", updated.Title)
	assert.Equal(t, l.Order, updated.Order)

	_, err = s.UpdateListTitle(ctx, "missing", "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateListOrder_AppliesBatch(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	a := testutil.MustList(t, s, b.ID, "A")
	bl := testutil.MustList(t, s, b.ID, "B")
	c := testutil.MustList(t, s, b.ID, "C")

	lists, err := s.UpdateListOrder(ctx, []model.OrderUpdate{
		{ID: c.ID, Order: 0},
		{ID: a.ID, Order: 1},
		{ID: bl.ID, Order: 2},
	})
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, c.ID, lists[0].ID)
	assert.Equal(t, 0, lists[0].Order)

	titles, orders := listOrders(t, s, b.ID)
	assert.Equal(t, []string{"C", "A", "B"}, titles)
	assert.Equal(t, []int{0, 1, 2}, orders)
}

func TestUpdateListOrder_MissingRowRollsBack(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	a := testutil.MustList(t, s, b.ID, "A")
	testutil.MustList(t, s, b.ID, "B")

	_, err := s.UpdateListOrder(ctx, []model.OrderUpdate{
		{ID: a.ID, Order: 1},
		{ID: "missing", Order: 0},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	titles, orders := listOrders(t, s, b.ID)
	assert.Equal(t, []string{"A", "B"}, titles)
	assert.Equal(t, []int{0, 1}, orders)
}

func TestDeleteList_RenumbersSiblingsAndRemovesCards(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	testutil.MustList(t, s, b.ID, "A")
	doomed := testutil.MustList(t, s, b.ID, "B")
	testutil.MustList(t, s, b.ID, "C")

	card := testutil.MustCard(t, s, doomed.ID, "Orphan")
	_, err := s.AddComment(ctx, card.ID, "u1", "soon gone")
	require.NoError(t, err)

	require.NoError(t, s.DeleteList(ctx, b.ID, doomed.ID))

	titles, orders := listOrders(t, s, b.ID)
	assert.Equal(t, []string{"A", "C"}, titles)
	assert.Equal(t, []int{0, 1}, orders)

	_, err = s.GetCardByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	comments, err := s.GetComments(ctx, card.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteList_WrongBoardIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	other := testutil.MustBoard(t, s, "Other")
	l := testutil.MustList(t, s, b.ID, "A")

	err := s.DeleteList(ctx, other.ID, l.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetListByID(ctx, l.ID)
	assert.NoError(t, err)
}

func TestCopyList_CopiesContentNotAssociations(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	src := testutil.MustList(t, s, b.ID, "Sprint")

	desc := "write the docs"
	first, err := s.CreateCard(ctx, model.CreateCardInput{ListID: src.ID, Title: "Docs", Description: &desc})
	require.NoError(t, err)
	testutil.MustCard(t, s, src.ID, "Tests")

	_, err = s.AssignUsers(ctx, model.AssignUsersInput{CardIDs: []string{first.ID}, UserIDs: []string{"u1"}})
	require.NoError(t, err)

	copied, err := s.CopyList(ctx, model.CopyListInput{ID: src.ID, BoardID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Sprint copy", copied.Title)
	assert.Equal(t, 1, copied.Order)
	assert.NotEqual(t, src.ID, copied.ID)

	cards, err := s.GetCardsByList(ctx, copied.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "Docs", cards[0].Title)
	require.NotNil(t, cards[0].Description)
	assert.Equal(t, desc, *cards[0].Description)
	assert.Equal(t, 0, cards[0].Order)
	assert.Equal(t, "Tests", cards[1].Title)
	assert.Nil(t, cards[1].Description)
	assert.Equal(t, 1, cards[1].Order)

	for _, c := range cards {
		assert.NotEqual(t, first.ID, c.ID)
		assignees, err := s.GetAssigneesForCard(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, assignees)

		activities, err := s.GetCardActivities(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, model.ActionCopied, activities[0].Action)
	}

	original, err := s.GetCardsByList(ctx, src.ID)
	require.NoError(t, err)
	assert.Len(t, original, 2)
}

func TestCopyList_EmptyTargetBoardStartsAtOne(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	empty := testutil.MustBoard(t, s, "Fresh")
	src := testutil.MustList(t, s, b.ID, "Template")

	copied, err := s.CopyList(ctx, model.CopyListInput{ID: src.ID, BoardID: empty.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, copied.Order)
	assert.Equal(t, empty.ID, copied.BoardID)

	cards, err := s.GetCardsByList(ctx, copied.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCopyList_MissingSourceIsNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")

	_, err := s.CopyList(context.Background(), model.CopyListInput{ID: "missing", BoardID: b.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, orders := listOrders(t, s, b.ID)
	assert.Empty(t, orders)
}
