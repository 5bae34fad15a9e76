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

const cardColumns = `id, list_id, title, description, status, due_date, priority, "order", created_at, updated_at`

// getCard reads one card through either the pool or a transaction.
func getCard(ctx context.Context, q sqlx.ExtContext, id string) (*model.Card, error) {
	var c model.Card
	err := sqlx.GetContext(ctx, q, &c,
		q.Rebind("SELECT "+cardColumns+" FROM cards WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting card %s: %w", id, err)
	}
	return &c, nil
}

// CreateCard appends a new card at the end of its list and records a
// "created" activity.
func (s *SQLStore) CreateCard(
	ctx context.Context,
	in model.CreateCardInput,
) (*model.Card, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}

	now := s.now()
	c := model.Card{
		ID:          uuid.New().String(),
		ListID:      in.ListID,
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.withTransaction(ctx, "create card", func(tx *sqlx.Tx) error {
		order, err := appendOrder(ctx, tx, cardsInList, in.ListID)
		if err != nil {
			return err
		}
		c.Order = order

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO cards (
				id, list_id, title, description, status, due_date,
				priority, "order", created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			c.ID, c.ListID, c.Title, c.Description, c.Status, c.DueDate,
			string(c.Priority), c.Order, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating card: %w", err)
		}
		return s.appendActivity(ctx, tx, c.ID, model.ActionCreated, c.Title)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCardByID retrieves a single card.
func (s *SQLStore) GetCardByID(ctx context.Context, id string) (*model.Card, error) {
	return getCard(ctx, s.db, id)
}

// GetCardsByList returns a list's cards in position order, archived ones
// included.
func (s *SQLStore) GetCardsByList(ctx context.Context, listID string) ([]model.Card, error) {
	var cards []model.Card
	err := s.db.SelectContext(ctx, &cards, s.db.Rebind(
		"SELECT "+cardColumns+` FROM cards WHERE list_id = ? ORDER BY "order", created_at, id`,
	), listID)
	if err != nil {
		return nil, fmt.Errorf("querying cards for list %s: %w", listID, err)
	}
	return cards, nil
}

// UpdateCardTitle renames a card.
func (s *SQLStore) UpdateCardTitle(
	ctx context.Context,
	id, title string,
) (*model.Card, error) {
	t, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	var c *model.Card
	err = s.withTransaction(ctx, "update card title", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE cards SET title = ?, updated_at = ? WHERE id = ?"),
			t, s.now(), id,
		)
		if err != nil {
			return fmt.Errorf("updating card %s: %w", id, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		if err := s.appendActivity(ctx, tx, id, model.ActionUpdated, "title: "+t); err != nil {
			return err
		}
		c, err = getCard(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCardDetails replaces a card's description, status, due date and
// priority.
func (s *SQLStore) UpdateCardDetails(
	ctx context.Context,
	id string,
	in model.UpdateCardDetailsInput,
) (*model.Card, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var c *model.Card
	err := s.withTransaction(ctx, "update card details", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE cards SET
				description = ?, status = ?, due_date = ?, priority = ?, updated_at = ?
			WHERE id = ?`),
			in.Description, in.Status, in.DueDate, string(in.Priority), s.now(), id,
		)
		if err != nil {
			return fmt.Errorf("updating card %s: %w", id, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		if err := s.appendActivity(ctx, tx, id, model.ActionUpdated, "details"); err != nil {
			return err
		}
		c, err = getCard(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCardOrder writes a reorder batch for cards in one transaction.
// Entries carrying a ListID move the card; a "moved" activity is recorded
// for every card whose list changed. Cards are returned in batch order.
func (s *SQLStore) UpdateCardOrder(
	ctx context.Context,
	updates []model.OrderUpdate,
) ([]model.Card, error) {
	if len(updates) == 0 {
		return nil, nil
	}

	cards := make([]model.Card, 0, len(updates))
	err := s.withTransaction(ctx, "update card order", func(tx *sqlx.Tx) error {
		previous := make(map[string]string)
		for _, u := range updates {
			if u.ListID == nil {
				continue
			}
			c, err := getCard(ctx, tx, u.ID)
			if err != nil {
				return err
			}
			previous[u.ID] = c.ListID
		}

		if err := s.applyOrder(ctx, tx, cardsInList, updates); err != nil {
			return err
		}

		for _, u := range updates {
			from, ok := previous[u.ID]
			if !ok || from == *u.ListID {
				continue
			}
			details := fmt.Sprintf("from list %s to list %s", from, *u.ListID)
			if err := s.appendActivity(ctx, tx, u.ID, model.ActionMoved, details); err != nil {
				return err
			}
			previous[u.ID] = *u.ListID
		}

		for _, u := range updates {
			c, err := getCard(ctx, tx, u.ID)
			if err != nil {
				return err
			}
			cards = append(cards, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("count", len(updates)).Debug("card order updated")
	return cards, nil
}

// DeleteCard removes a card of the given list with all of its dependents,
// then renumbers the list's remaining cards.
func (s *SQLStore) DeleteCard(ctx context.Context, listID, id string) error {
	var changed int
	err := s.withTransaction(ctx, "delete card", func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(
			"SELECT COUNT(*) FROM cards WHERE id = ? AND list_id = ?"), id, listID); err != nil {
			return fmt.Errorf("checking card %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("card %s in list %s: %w", id, listID, ErrNotFound)
		}

		deleted, err := deleteCardsCascade(ctx, tx, []string{id})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("card %s in list %s: %w", id, listID, ErrNotFound)
		}

		changed, err = s.renumber(ctx, tx, cardsInList, listID)
		return err
	})
	if err != nil {
		return err
	}

	recordRenumber(cardsInList.table, changed)
	s.log.WithFields(logrus.Fields{
		"list_id":    listID,
		"card_id":    id,
		"renumbered": changed,
	}).Debug("card deleted")
	return nil
}
