package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/kanban/internal/model"
)

// CreateLabel inserts a new label on a board. Names are unique per board.
func (s *SQLStore) CreateLabel(
	ctx context.Context,
	boardID, name, color string,
) (*model.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("label name must not be empty")
	}

	l := model.Label{
		ID:        uuid.New().String(),
		BoardID:   boardID,
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO labels (id, board_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)"),
		l.ID, l.BoardID, l.Name, l.Color, l.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating label: %w", err)
	}
	return &l, nil
}

// GetLabelsByBoard retrieves a board's labels ordered by name.
func (s *SQLStore) GetLabelsByBoard(ctx context.Context, boardID string) ([]model.Label, error) {
	var labels []model.Label
	err := s.db.SelectContext(ctx, &labels, s.db.Rebind(`
		SELECT id, board_id, name, color, created_at
		FROM labels WHERE board_id = ?
		ORDER BY name`), boardID)
	if err != nil {
		return nil, fmt.Errorf("querying labels for board %s: %w", boardID, err)
	}
	return labels, nil
}

// GetLabelsForCard retrieves all labels attached to a card.
func (s *SQLStore) GetLabelsForCard(ctx context.Context, cardID string) ([]model.Label, error) {
	var labels []model.Label
	err := s.db.SelectContext(ctx, &labels, s.db.Rebind(`
		SELECT l.id, l.board_id, l.name, l.color, l.created_at
		FROM labels l
		INNER JOIN card_labels cl ON l.id = cl.label_id
		WHERE cl.card_id = ?
		ORDER BY l.name`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying labels for card %s: %w", cardID, err)
	}
	return labels, nil
}

// findLabelByName looks up a board label by exact name.
func (s *SQLStore) findLabelByName(
	ctx context.Context,
	boardID, name string,
) (*model.Label, error) {
	labels, err := s.GetLabelsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for i := range labels {
		if strings.EqualFold(labels[i].Name, name) {
			return &labels[i], nil
		}
	}
	return nil, fmt.Errorf("label %q on board %s: %w", name, boardID, ErrNotFound)
}

// EnsureLabel returns the board label with the given name, creating it
// when missing.
func (s *SQLStore) EnsureLabel(
	ctx context.Context,
	boardID, name, color string,
) (*model.Label, error) {
	l, err := s.findLabelByName(ctx, boardID, strings.TrimSpace(name))
	if err == nil {
		return l, nil
	}
	return s.CreateLabel(ctx, boardID, name, color)
}
