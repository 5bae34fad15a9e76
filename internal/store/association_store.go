package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/kanban/internal/model"
)

// GetAssigneesForCard retrieves a card's assignees in assignment order.
func (s *SQLStore) GetAssigneesForCard(
	ctx context.Context,
	cardID string,
) ([]model.CardAssignee, error) {
	var assignees []model.CardAssignee
	err := s.db.SelectContext(ctx, &assignees, s.db.Rebind(`
		SELECT card_id, user_id, assigned_at
		FROM card_assignees WHERE card_id = ?
		ORDER BY assigned_at, user_id`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying assignees for card %s: %w", cardID, err)
	}
	return assignees, nil
}

// AddChecklistItem appends an unchecked item to a card's checklist.
func (s *SQLStore) AddChecklistItem(
	ctx context.Context,
	cardID, text string,
) (*model.ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("checklist item text must not be empty")
	}

	item := model.ChecklistItem{
		ID:        uuid.New().String(),
		CardID:    cardID,
		Text:      text,
		CreatedAt: s.now(),
	}
	err := s.withTransaction(ctx, "add checklist item", func(tx *sqlx.Tx) error {
		order, err := appendOrder(ctx, tx, checklistInCard, cardID)
		if err != nil {
			return err
		}
		item.Order = order

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO checklist_items (id, card_id, text, checked, "order", created_at)
			VALUES (?, ?, ?, ?, ?, ?)`),
			item.ID, item.CardID, item.Text, boolToInt(item.Checked), item.Order, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("adding checklist item to card %s: %w", cardID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetChecklistItems retrieves a card's checklist in position order.
func (s *SQLStore) GetChecklistItems(
	ctx context.Context,
	cardID string,
) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(`
		SELECT id, card_id, text, checked, "order", created_at
		FROM checklist_items WHERE card_id = ?
		ORDER BY "order", created_at`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist items for card %s: %w", cardID, err)
	}
	return items, nil
}

// AddComment records a comment on a card.
func (s *SQLStore) AddComment(
	ctx context.Context,
	cardID, userID, body string,
) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("comment body must not be empty")
	}

	c := model.Comment{
		ID:        uuid.New().String(),
		CardID:    cardID,
		UserID:    userID,
		Body:      body,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO comments (id, card_id, user_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.CardID, c.UserID, c.Body, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding comment to card %s: %w", cardID, err)
	}
	return &c, nil
}

// GetComments retrieves a card's comments, oldest first.
func (s *SQLStore) GetComments(ctx context.Context, cardID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.SelectContext(ctx, &comments, s.db.Rebind(`
		SELECT id, card_id, user_id, body, created_at
		FROM comments WHERE card_id = ?
		ORDER BY created_at, id`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for card %s: %w", cardID, err)
	}
	return comments, nil
}

// AddAttachment records attachment metadata. The file itself lives
// elsewhere; only its URL is stored.
func (s *SQLStore) AddAttachment(
	ctx context.Context,
	a model.Attachment,
) (*model.Attachment, error) {
	if strings.TrimSpace(a.FileName) == "" || strings.TrimSpace(a.FileURL) == "" {
		return nil, fmt.Errorf("attachment needs a file name and URL")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO attachments (id, card_id, file_name, file_url, mime_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.CardID, a.FileName, a.FileURL, a.MimeType, a.Size, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding attachment to card %s: %w", a.CardID, err)
	}
	return &a, nil
}

// GetAttachments retrieves a card's attachments, oldest first.
func (s *SQLStore) GetAttachments(ctx context.Context, cardID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := s.db.SelectContext(ctx, &attachments, s.db.Rebind(`
		SELECT id, card_id, file_name, file_url, mime_type, size, created_at
		FROM attachments WHERE card_id = ?
		ORDER BY created_at, id`), cardID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments for card %s: %w", cardID, err)
	}
	return attachments, nil
}
