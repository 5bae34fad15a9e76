package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// RenumberList rewrites a list's cards to orders 0..n-1, keeping their
// current relative order. It returns how many cards changed position value.
func (s *SQLStore) RenumberList(ctx context.Context, listID string) (int, error) {
	var changed int
	err := s.withTransaction(ctx, "renumber list", func(tx *sqlx.Tx) error {
		var err error
		changed, err = s.renumber(ctx, tx, cardsInList, listID)
		return err
	})
	if err != nil {
		return 0, err
	}

	recordRenumber(cardsInList.table, changed)
	s.log.WithFields(logrus.Fields{"list_id": listID, "changed": changed}).Info("list renumbered")
	return changed, nil
}

// RenumberBoard rewrites a board's lists, and the cards of each of its
// lists, to dense orders in one transaction.
func (s *SQLStore) RenumberBoard(ctx context.Context, boardID string) (int, error) {
	var listsChanged, cardsChanged int
	err := s.withTransaction(ctx, "renumber board", func(tx *sqlx.Tx) error {
		var err error
		listsChanged, err = s.renumber(ctx, tx, listsInBoard, boardID)
		if err != nil {
			return err
		}

		lists, err := siblings(ctx, tx, listsInBoard, boardID)
		if err != nil {
			return err
		}
		for _, l := range lists {
			n, err := s.renumber(ctx, tx, cardsInList, l.ID)
			if err != nil {
				return err
			}
			cardsChanged += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	recordRenumber(listsInBoard.table, listsChanged)
	recordRenumber(cardsInList.table, cardsChanged)
	s.log.WithFields(logrus.Fields{
		"board_id":      boardID,
		"lists_changed": listsChanged,
		"cards_changed": cardsChanged,
	}).Info("board renumbered")
	return listsChanged + cardsChanged, nil
}
