package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/tests/testutil"
)

func cardTitles(t *testing.T, s store.Store, listID string) []string {
	t.Helper()
	cards, err := s.GetCardsByList(context.Background(), listID)
	require.NoError(t, err)
	titles := make([]string, len(cards))
	for i, c := range cards {
		titles[i] = c.Title
	}
	return titles
}

func activityActions(t *testing.T, s store.Store, cardID string) []string {
	t.Helper()
	activities, err := s.GetCardActivities(context.Background(), cardID)
	require.NoError(t, err)
	actions := make([]string, len(activities))
	for i, a := range activities {
		actions[i] = a.Action
	}
	return actions
}

func TestCreateCard_AppendsWithDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Backlog")

	a := testutil.MustCard(t, s, l.ID, "A")
	testutil.MustCard(t, s, l.ID, "B")
	testutil.MustCard(t, s, l.ID, "C")

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, model.PriorityMedium, a.Priority)
	assert.Equal(t, []int{0, 1, 2}, testutil.CardOrders(t, s, l.ID))
	assert.Equal(t, []string{model.ActionCreated}, activityActions(t, s, a.ID))

	got, err := s.GetCardByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.Nil(t, got.DueDate)
}

func TestCreateCard_Validation(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Backlog")

	_, err := s.CreateCard(ctx, model.CreateCardInput{ListID: l.ID, Title: "x", Priority: "urgent"})
	assert.Error(t, err)

	_, err = s.CreateCard(ctx, model.CreateCardInput{ListID: l.ID, Title: "\t"})
	assert.ErrorIs(t, err, store.ErrEmptyTitle)

	_, err = s.CreateCard(ctx, model.CreateCardInput{ListID: "missing", Title: "x"})
	assert.Error(t, err)

	assert.Empty(t, testutil.CardOrders(t, s, l.ID))
}

func TestUpdateCardTitle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Backlog")
	c := testutil.MustCard(t, s, l.ID, "Draft")

	updated, err := s.UpdateCardTitle(ctx, c.ID, "Final")
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, []string{model.ActionCreated, model.ActionUpdated}, activityActions(t, s, c.ID))

	_, err = s.UpdateCardTitle(ctx, "missing", "Final")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateCardDetails(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Backlog")
	c := testutil.MustCard(t, s, l.ID, "Task")

	desc := "details"
	due := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	updated, err := s.UpdateCardDetails(ctx, c.ID, model.UpdateCardDetailsInput{
		Description: &desc,
		DueDate:     &due,
		Priority:    model.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	_, err = s.UpdateCardDetails(ctx, c.ID, model.UpdateCardDetailsInput{Priority: "whenever"})
	assert.Error(t, err)

	_, err = s.UpdateCardDetails(ctx, "missing", model.UpdateCardDetailsInput{Priority: model.PriorityLow})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateCardOrder_MovesBetweenLists(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	todo := testutil.MustList(t, s, b.ID, "Todo")
	done := testutil.MustList(t, s, b.ID, "Done")
	a := testutil.MustCard(t, s, todo.ID, "A")
	bc := testutil.MustCard(t, s, todo.ID, "B")

	cards, err := s.UpdateCardOrder(ctx, []model.OrderUpdate{
		{ID: a.ID, Order: 0, ListID: &done.ID},
		{ID: bc.ID, Order: 0, ListID: &todo.ID},
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, done.ID, cards[0].ListID)
	assert.Equal(t, todo.ID, cards[1].ListID)

	assert.Equal(t, []string{"B"}, cardTitles(t, s, todo.ID))
	assert.Equal(t, []string{"A"}, cardTitles(t, s, done.ID))

	assert.Equal(t, []string{model.ActionCreated, model.ActionMoved}, activityActions(t, s, a.ID))
	assert.Equal(t, []string{model.ActionCreated}, activityActions(t, s, bc.ID))
}

func TestUpdateCardOrder_ReordersWithinList(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Todo")
	a := testutil.MustCard(t, s, l.ID, "A")
	bc := testutil.MustCard(t, s, l.ID, "B")
	c := testutil.MustCard(t, s, l.ID, "C")

	_, err := s.UpdateCardOrder(ctx, []model.OrderUpdate{
		{ID: c.ID, Order: 0},
		{ID: a.ID, Order: 1},
		{ID: bc.ID, Order: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, cardTitles(t, s, l.ID))
	assert.Equal(t, []int{0, 1, 2}, testutil.CardOrders(t, s, l.ID))
}

func TestDeleteCard_RenumbersSiblings(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Todo")
	testutil.MustCard(t, s, l.ID, "A")
	doomed := testutil.MustCard(t, s, l.ID, "B")
	testutil.MustCard(t, s, l.ID, "C")
	testutil.MustCard(t, s, l.ID, "D")

	_, err := s.AddChecklistItem(ctx, doomed.ID, "step one")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCard(ctx, l.ID, doomed.ID))

	assert.Equal(t, []string{"A", "C", "D"}, cardTitles(t, s, l.ID))
	assert.Equal(t, []int{0, 1, 2}, testutil.CardOrders(t, s, l.ID))

	items, err := s.GetChecklistItems(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, activityActions(t, s, doomed.ID))
}

func TestDeleteCard_NotFoundSkipsRenumber(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Todo")
	other := testutil.MustList(t, s, b.ID, "Other")
	a := testutil.MustCard(t, s, l.ID, "A")
	gap := testutil.MustCard(t, s, l.ID, "B")
	testutil.MustCard(t, s, l.ID, "C")

	_, err := s.DeleteCards(ctx, model.CardIDsInput{CardIDs: []string{gap.ID}})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, testutil.CardOrders(t, s, l.ID))

	err = s.DeleteCard(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteCard(ctx, l.ID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []int{0, 2}, testutil.CardOrders(t, s, l.ID))
}

func TestChecklistItemsAppendInOrder(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	l := testutil.MustList(t, s, b.ID, "Todo")
	c := testutil.MustCard(t, s, l.ID, "A")

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.AddChecklistItem(ctx, c.ID, text)
		require.NoError(t, err)
	}

	items, err := s.GetChecklistItems(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i, item.Order)
		assert.False(t, item.Checked)
	}
	assert.Equal(t, "three", items[2].Text)
}
