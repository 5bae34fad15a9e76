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

const listColumns = `id, board_id, title, "order", created_at, updated_at`

// copySuffix is appended to the title of a copied list.
const copySuffix = " copy"

// getList reads one list through either the pool or a transaction.
func getList(ctx context.Context, q sqlx.ExtContext, id string) (*model.List, error) {
	var l model.List
	err := sqlx.GetContext(ctx, q, &l,
		q.Rebind("SELECT "+listColumns+" FROM lists WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}
	return &l, nil
}

// CreateList appends a new list at the end of its board.
func (s *SQLStore) CreateList(
	ctx context.Context,
	in model.CreateListInput,
) (*model.List, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	l := model.List{
		ID:        uuid.New().String(),
		BoardID:   in.BoardID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.withTransaction(ctx, "create list", func(tx *sqlx.Tx) error {
		order, err := appendOrder(ctx, tx, listsInBoard, in.BoardID)
		if err != nil {
			return err
		}
		l.Order = order

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO lists (id, board_id, title, "order", created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`),
			l.ID, l.BoardID, l.Title, l.Order, l.CreatedAt, l.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetListByID retrieves a single list.
func (s *SQLStore) GetListByID(ctx context.Context, id string) (*model.List, error) {
	return getList(ctx, s.db, id)
}

// GetListsByBoard returns a board's lists in position order.
func (s *SQLStore) GetListsByBoard(ctx context.Context, boardID string) ([]model.List, error) {
	var lists []model.List
	err := s.db.SelectContext(ctx, &lists, s.db.Rebind(
		"SELECT "+listColumns+` FROM lists WHERE board_id = ? ORDER BY "order", created_at, id`,
	), boardID)
	if err != nil {
		return nil, fmt.Errorf("querying lists for board %s: %w", boardID, err)
	}
	return lists, nil
}

// UpdateListTitle renames a list.
func (s *SQLStore) UpdateListTitle(
	ctx context.Context,
	id, title string,
) (*model.List, error) {
	t, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE lists SET title = ?, updated_at = ? WHERE id = ?"),
		t, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating list %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("list %s: %w", id, ErrNotFound)
	}
	return getList(ctx, s.db, id)
}

// UpdateListOrder writes a reorder batch for lists in one transaction and
// returns the updated lists in batch order. The batch is applied as given.
func (s *SQLStore) UpdateListOrder(
	ctx context.Context,
	updates []model.OrderUpdate,
) ([]model.List, error) {
	if len(updates) == 0 {
		return nil, nil
	}

	lists := make([]model.List, 0, len(updates))
	err := s.withTransaction(ctx, "update list order", func(tx *sqlx.Tx) error {
		if err := s.applyOrder(ctx, tx, listsInBoard, updates); err != nil {
			return err
		}
		for _, u := range updates {
			l, err := getList(ctx, tx, u.ID)
			if err != nil {
				return err
			}
			lists = append(lists, *l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("count", len(updates)).Debug("list order updated")
	return lists, nil
}

// DeleteList removes a list of the given board with all of its cards, then
// renumbers the board's remaining lists.
func (s *SQLStore) DeleteList(ctx context.Context, boardID, id string) error {
	var changed int
	err := s.withTransaction(ctx, "delete list", func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(
			"SELECT COUNT(*) FROM lists WHERE id = ? AND board_id = ?"), id, boardID); err != nil {
			return fmt.Errorf("checking list %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("list %s in board %s: %w", id, boardID, ErrNotFound)
		}

		var cardIDs []string
		if err := tx.SelectContext(ctx, &cardIDs,
			tx.Rebind("SELECT id FROM cards WHERE list_id = ?"), id); err != nil {
			return fmt.Errorf("collecting cards of list %s: %w", id, err)
		}
		if _, err := deleteCardsCascade(ctx, tx, cardIDs); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM lists WHERE id = ? AND board_id = ?"), id, boardID)
		if err != nil {
			return fmt.Errorf("deleting list %s: %w", id, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("list %s in board %s: %w", id, boardID, ErrNotFound)
		}

		changed, err = s.renumber(ctx, tx, listsInBoard, boardID)
		return err
	})
	if err != nil {
		return err
	}

	recordRenumber(listsInBoard.table, changed)
	s.log.WithFields(logrus.Fields{
		"board_id":   boardID,
		"list_id":    id,
		"renumbered": changed,
	}).Debug("list deleted")
	return nil
}

// copySourceRow is one row of the list-plus-cards read used by CopyList.
// Card columns are NULL when the source list has no cards.
type copySourceRow struct {
	ListTitle       string         `db:"list_title"`
	CardTitle       sql.NullString `db:"card_title"`
	CardDescription sql.NullString `db:"card_description"`
	CardOrder       sql.NullInt64  `db:"card_order"`
}

// CopyList duplicates a list and its cards' title, description and order
// into a new list at the end of in.BoardID. Assignees, labels, checklist
// items, comments and attachments are not copied. When the target board has
// no lists the copy is placed at order 1.
func (s *SQLStore) CopyList(
	ctx context.Context,
	in model.CopyListInput,
) (*model.List, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var copied model.List
	var cardCount int
	err := s.withTransaction(ctx, "copy list", func(tx *sqlx.Tx) error {
		var src []copySourceRow
		if err := tx.SelectContext(ctx, &src, tx.Rebind(`
			SELECT l.title AS list_title,
				c.title AS card_title,
				c.description AS card_description,
				c."order" AS card_order
			FROM lists l
			LEFT JOIN cards c ON c.list_id = l.id
			WHERE l.id = ?
			ORDER BY c."order", c.created_at, c.id`), in.ID); err != nil {
			return fmt.Errorf("reading list %s for copy: %w", in.ID, err)
		}
		if len(src) == 0 {
			return fmt.Errorf("list %s: %w", in.ID, ErrNotFound)
		}

		highest, ok, err := maxOrder(ctx, tx, listsInBoard, in.BoardID)
		if err != nil {
			return err
		}
		order := 1
		if ok {
			order = highest + 1
		}

		now := s.now()
		copied = model.List{
			ID:        uuid.New().String(),
			BoardID:   in.BoardID,
			Title:     src[0].ListTitle + copySuffix,
			Order:     order,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO lists (id, board_id, title, "order", created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`),
			copied.ID, copied.BoardID, copied.Title, copied.Order,
			copied.CreatedAt, copied.UpdatedAt,
		); err != nil {
			return fmt.Errorf("inserting copy of list %s: %w", in.ID, err)
		}

		details := fmt.Sprintf("copied from list %s", in.ID)
		for _, r := range src {
			if !r.CardTitle.Valid {
				continue
			}
			var desc *string
			if r.CardDescription.Valid {
				desc = &r.CardDescription.String
			}
			cardID := uuid.New().String()
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO cards (id, list_id, title, description, priority, "order", created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
				cardID, copied.ID, r.CardTitle.String, desc, string(model.PriorityMedium),
				int(r.CardOrder.Int64), now, now,
			); err != nil {
				return fmt.Errorf("copying card into list %s: %w", copied.ID, err)
			}
			if err := s.appendActivity(ctx, tx, cardID, model.ActionCopied, details); err != nil {
				return err
			}
			cardCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"source_list_id": in.ID,
		"list_id":        copied.ID,
		"card_count":     cardCount,
	}).Debug("list copied")
	return &copied, nil
}
