package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/tests/testutil"
)

func TestRenumberList_ClosesGaps(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	testutil.MustCard(t, f.s, f.source.ID, "D")

	_, err := f.s.DeleteCards(ctx, model.CardIDsInput{CardIDs: f.ids(0)})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, testutil.CardOrders(t, f.s, f.source.ID))

	changed, err := f.s.RenumberList(ctx, f.source.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)
	assert.Equal(t, []int{0, 1, 2}, testutil.CardOrders(t, f.s, f.source.ID))
	assert.Equal(t, []string{"B", "C", "D"}, cardTitles(t, f.s, f.source.ID))

	changed, err = f.s.RenumberList(ctx, f.source.ID)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestRenumberBoard_ListsAndCards(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()

	_, err := f.s.MoveCards(ctx, model.MoveCardsInput{CardIDs: f.ids(1), TargetListID: f.target.ID})
	require.NoError(t, err)
	_, err = f.s.UpdateListOrder(ctx, []model.OrderUpdate{{ID: f.target.ID, Order: 5}})
	require.NoError(t, err)

	changed, err := f.s.RenumberBoard(ctx, f.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	_, orders := listOrders(t, f.s, f.board.ID)
	assert.Equal(t, []int{0, 1}, orders)
	assert.Equal(t, []int{0, 1}, testutil.CardOrders(t, f.s, f.source.ID))
	assert.Equal(t, []int{0}, testutil.CardOrders(t, f.s, f.target.ID))
}
