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

func TestCreateBoard(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	b, err := s.CreateBoard(ctx, model.CreateBoardInput{OrganizationID: "org-1", Title: " Launch "})
	require.NoError(t, err)
	assert.Equal(t, "Launch", b.Title)

	got, err := s.GetBoardByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "org-1", got.OrganizationID)

	_, err = s.CreateBoard(ctx, model.CreateBoardInput{Title: "No org"})
	assert.Error(t, err)

	_, err = s.GetBoardByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetBoards_ScopedToOrganization(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	testutil.MustBoard(t, s, "One")
	testutil.MustBoard(t, s, "Two")
	_, err := s.CreateBoard(ctx, model.CreateBoardInput{OrganizationID: "org-other", Title: "Elsewhere"})
	require.NoError(t, err)

	boards, err := s.GetBoards(ctx, "org-test")
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "One", boards[0].Title)
	assert.Equal(t, "Two", boards[1].Title)
}

func TestGetBoardSnapshot(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	todo := testutil.MustList(t, s, b.ID, "Todo")
	testutil.MustList(t, s, b.ID, "Done")
	testutil.MustCard(t, s, todo.ID, "A")
	testutil.MustCard(t, s, todo.ID, "B")

	snap, err := s.GetBoardSnapshot(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, snap.Board.ID)
	require.Len(t, snap.Lists, 2)
	assert.Equal(t, "Todo", snap.Lists[0].Title)
	require.Len(t, snap.Lists[0].Cards, 2)
	assert.Equal(t, "B", snap.Lists[0].Cards[1].Title)
	assert.Empty(t, snap.Lists[1].Cards)
}

func TestDeleteBoard_Cascades(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")
	keep := testutil.MustBoard(t, s, "Keep")
	l := testutil.MustList(t, s, b.ID, "Todo")
	c := testutil.MustCard(t, s, l.ID, "A")
	kl := testutil.MustList(t, s, keep.ID, "Todo")
	kc := testutil.MustCard(t, s, kl.ID, "Survivor")

	label, err := s.CreateLabel(ctx, b.ID, "bug", "")
	require.NoError(t, err)
	_, err = s.AddLabels(ctx, model.AddLabelsInput{CardIDs: []string{c.ID, kc.ID}, LabelIDs: []string{label.ID}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBoard(ctx, b.ID))

	_, err = s.GetBoardByID(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetListByID(ctx, l.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetCardByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	labels, err := s.GetLabelsForCard(ctx, kc.ID)
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, []string{"Survivor"}, cardTitles(t, s, kl.ID))

	assert.ErrorIs(t, s.DeleteBoard(ctx, b.ID), store.ErrNotFound)
}

func TestEnsureLabel_ReusesByName(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	b := testutil.MustBoard(t, s, "Roadmap")

	first, err := s.EnsureLabel(ctx, b.ID, "bug", "")
	require.NoError(t, err)
	second, err := s.EnsureLabel(ctx, b.ID, "Bug", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	labels, err := s.GetLabelsByBoard(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, labels, 1)
}

func TestSchemaVersion(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
