package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := store.Open(store.Options{
		Driver: store.DriverSQLite,
		DSN:    ":memory:",
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// MustBoard creates a board in the "org-test" organization.
func MustBoard(t *testing.T, s store.Store, title string) *model.Board {
	t.Helper()

	b, err := s.CreateBoard(context.Background(), model.CreateBoardInput{
		OrganizationID: "org-test",
		Title:          title,
	})
	if err != nil {
		t.Fatalf("creating board %q: %v", title, err)
	}
	return b
}

// MustList appends a list to a board.
func MustList(t *testing.T, s store.Store, boardID, title string) *model.List {
	t.Helper()

	l, err := s.CreateList(context.Background(), model.CreateListInput{
		BoardID: boardID,
		Title:   title,
	})
	if err != nil {
		t.Fatalf("creating list %q: %v", title, err)
	}
	return l
}

// MustCard appends a card to a list.
func MustCard(t *testing.T, s store.Store, listID, title string) *model.Card {
	t.Helper()

	c, err := s.CreateCard(context.Background(), model.CreateCardInput{
		ListID: listID,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("creating card %q: %v", title, err)
	}
	return c
}

// CardOrders returns the order values of a list's cards in position order.
func CardOrders(t *testing.T, s store.Store, listID string) []int {
	t.Helper()

	cards, err := s.GetCardsByList(context.Background(), listID)
	if err != nil {
		t.Fatalf("reading cards of list %s: %v", listID, err)
	}
	orders := make([]int, len(cards))
	for i, c := range cards {
		orders[i] = c.Order
	}
	return orders
}
