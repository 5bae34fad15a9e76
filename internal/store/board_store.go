package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
)

// CreateBoard inserts a new, empty board.
func (s *SQLStore) CreateBoard(
	ctx context.Context,
	in model.CreateBoardInput,
) (*model.Board, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := model.Board{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		Title:          title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO boards (id, organization_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`),
		b.ID, b.OrganizationID, b.Title, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}
	return &b, nil
}

// GetBoardByID retrieves a single board.
func (s *SQLStore) GetBoardByID(ctx context.Context, id string) (*model.Board, error) {
	var b model.Board
	err := s.db.GetContext(ctx, &b, s.db.Rebind(`
		SELECT id, organization_id, title, created_at, updated_at
		FROM boards WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting board %s: %w", id, err)
	}
	return &b, nil
}

// GetBoards lists an organization's boards, oldest first.
func (s *SQLStore) GetBoards(
	ctx context.Context,
	organizationID string,
) ([]model.Board, error) {
	var boards []model.Board
	err := s.db.SelectContext(ctx, &boards, s.db.Rebind(`
		SELECT id, organization_id, title, created_at, updated_at
		FROM boards
		WHERE organization_id = ?
		ORDER BY created_at, id`), organizationID)
	if err != nil {
		return nil, fmt.Errorf("querying boards for %s: %w", organizationID, err)
	}
	return boards, nil
}

// GetBoardSnapshot loads a board with its lists and their cards, each in
// position order.
func (s *SQLStore) GetBoardSnapshot(
	ctx context.Context,
	id string,
) (*model.BoardSnapshot, error) {
	b, err := s.GetBoardByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lists, err := s.GetListsByBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := &model.BoardSnapshot{
		Board: *b,
		Lists: make([]model.ListWithCards, 0, len(lists)),
	}
	for _, l := range lists {
		cards, err := s.GetCardsByList(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		snap.Lists = append(snap.Lists, model.ListWithCards{List: l, Cards: cards})
	}
	return snap, nil
}

// DeleteBoard removes a board together with its lists, their cards and every
// card dependent, and the board's labels.
func (s *SQLStore) DeleteBoard(ctx context.Context, id string) error {
	var removed int64
	err := s.withTransaction(ctx, "delete board", func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			tx.Rebind("SELECT COUNT(*) FROM boards WHERE id = ?"), id); err != nil {
			return fmt.Errorf("checking board %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("board %s: %w", id, ErrNotFound)
		}

		var cardIDs []string
		if err := tx.SelectContext(ctx, &cardIDs, tx.Rebind(`
			SELECT c.id FROM cards c
			INNER JOIN lists l ON l.id = c.list_id
			WHERE l.board_id = ?`), id); err != nil {
			return fmt.Errorf("collecting cards of board %s: %w", id, err)
		}

		var err error
		removed, err = deleteCardsCascade(ctx, tx, cardIDs)
		if err != nil {
			return err
		}

		stmts := []string{
			`DELETE FROM card_labels WHERE label_id IN (SELECT id FROM labels WHERE board_id = ?)`,
			`DELETE FROM labels WHERE board_id = ?`,
			`DELETE FROM lists WHERE board_id = ?`,
			`DELETE FROM boards WHERE id = ?`,
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
				return fmt.Errorf("deleting board %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"board_id":   id,
		"card_count": removed,
	}).Debug("board deleted")
	return nil
}

// deleteCardsCascade removes every dependent row of the given cards, table
// by table, then the cards themselves. It returns the number of card rows
// deleted. Lists are not renumbered.
func deleteCardsCascade(ctx context.Context, tx *sqlx.Tx, cardIDs []string) (int64, error) {
	if len(cardIDs) == 0 {
		return 0, nil
	}
	in, args := inClause(cardIDs)

	for _, table := range cardDependentTables {
		q := fmt.Sprintf("DELETE FROM %s WHERE card_id IN (%s)", table, in)
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return 0, fmt.Errorf("deleting %s of %d card(s): %w", table, len(cardIDs), err)
		}
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", tableCards, in)
	res, err := tx.ExecContext(ctx, tx.Rebind(q), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting %d card(s): %w", len(cardIDs), err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
