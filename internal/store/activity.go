package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/kanban/internal/model"
)

// appendActivity records one audit row for a card inside the caller's
// transaction. It is the only writer of card_activities.
func (s *SQLStore) appendActivity(
	ctx context.Context,
	tx *sqlx.Tx,
	cardID, action, details string,
) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO card_activities (id, card_id, action, details, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		uuid.New().String(), cardID, action, details, s.now(),
	)
	if err != nil {
		return fmt.Errorf("recording %s activity for card %s: %w", action, cardID, err)
	}
	return nil
}

// appendActivities records the same action for every card, in slice order.
func (s *SQLStore) appendActivities(
	ctx context.Context,
	tx *sqlx.Tx,
	cardIDs []string,
	action, details string,
) error {
	for _, id := range cardIDs {
		if err := s.appendActivity(ctx, tx, id, action, details); err != nil {
			return err
		}
	}
	return nil
}

// GetCardActivities returns a card's audit trail, oldest first.
func (s *SQLStore) GetCardActivities(
	ctx context.Context,
	cardID string,
) ([]model.CardActivity, error) {
	var activities []model.CardActivity
	err := s.db.SelectContext(ctx, &activities, s.db.Rebind(`
		SELECT id, card_id, action, details, created_at
		FROM card_activities
		WHERE card_id = ?
		ORDER BY created_at, id`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying activities for card %s: %w", cardID, err)
	}
	return activities, nil
}
