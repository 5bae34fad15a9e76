package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
)

// Bulk operation names, used for transaction logs and metric labels.
const (
	opMoveCards    = "move_cards"
	opAssignUsers  = "assign_users"
	opAddLabels    = "add_labels"
	opSetDueDate   = "set_due_date"
	opArchiveCards = "archive_cards"
	opDeleteCards  = "delete_cards"
)

// dueDateLayout formats due dates in activity details.
const dueDateLayout = "2006-01-02"

// emptyResult is returned without touching the database when there is
// nothing to do.
func emptyResult(message string) model.BulkResult {
	return model.BulkResult{Success: true, Updated: 0, Message: message}
}

// finishBulk records metrics and logs the outcome of a bulk operation.
func (s *SQLStore) finishBulk(
	op string,
	cardCount int,
	res model.BulkResult,
	err error,
) (model.BulkResult, error) {
	recordBulk(op, res.Updated, err)
	if err != nil {
		return model.BulkResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.WithFields(logrus.Fields{
		"op":         op,
		"card_count": cardCount,
		"updated":    res.Updated,
	}).Debug("bulk operation committed")
	return res, nil
}

// MoveCards appends the cards, in input order, to the end of the target
// list. Source lists are left as they are and may contain gaps.
func (s *SQLStore) MoveCards(
	ctx context.Context,
	in model.MoveCardsInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 {
		return s.finishBulk(opMoveCards, 0, emptyResult("No cards to move"), nil)
	}

	err := s.withTransaction(ctx, opMoveCards, func(tx *sqlx.Tx) error {
		start, err := appendOrder(ctx, tx, cardsInList, in.TargetListID)
		if err != nil {
			return err
		}

		target := in.TargetListID
		updates := make([]model.OrderUpdate, len(in.CardIDs))
		for i, id := range in.CardIDs {
			updates[i] = model.OrderUpdate{ID: id, Order: start + i, ListID: &target}
		}
		if err := s.applyOrder(ctx, tx, cardsInList, updates); err != nil {
			return err
		}

		return s.appendActivities(ctx, tx, in.CardIDs, model.ActionMoved,
			fmt.Sprintf("moved to list %s", target))
	})

	return s.finishBulk(opMoveCards, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: len(in.CardIDs),
		Message: fmt.Sprintf("Moved %d card(s)", len(in.CardIDs)),
	}, err)
}

// AssignUsers attaches every user to every card. Pairs that already exist
// are skipped. Updated counts attempted pairs.
func (s *SQLStore) AssignUsers(
	ctx context.Context,
	in model.AssignUsersInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 || len(in.UserIDs) == 0 {
		return s.finishBulk(opAssignUsers, len(in.CardIDs), emptyResult("No assignments to add"), nil)
	}

	err := s.withTransaction(ctx, opAssignUsers, func(tx *sqlx.Tx) error {
		return s.insertPairs(ctx, tx, pairInsert{
			table:    tableCardAssignees,
			column:   "user_id",
			stamp:    "assigned_at",
			action:   model.ActionAssigned,
			noun:     "user",
			cardIDs:  in.CardIDs,
			otherIDs: in.UserIDs,
		})
	})

	pairs := len(in.CardIDs) * len(in.UserIDs)
	return s.finishBulk(opAssignUsers, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: pairs,
		Message: fmt.Sprintf("Assigned %d user(s) to %d card(s)", len(in.UserIDs), len(in.CardIDs)),
	}, err)
}

// AddLabels attaches every label to every card. Pairs that already exist
// are skipped. Updated counts attempted pairs.
func (s *SQLStore) AddLabels(
	ctx context.Context,
	in model.AddLabelsInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 || len(in.LabelIDs) == 0 {
		return s.finishBulk(opAddLabels, len(in.CardIDs), emptyResult("No labels to add"), nil)
	}

	err := s.withTransaction(ctx, opAddLabels, func(tx *sqlx.Tx) error {
		return s.insertPairs(ctx, tx, pairInsert{
			table:    tableCardLabels,
			column:   "label_id",
			stamp:    "added_at",
			action:   model.ActionLabeled,
			noun:     "label",
			cardIDs:  in.CardIDs,
			otherIDs: in.LabelIDs,
		})
	})

	pairs := len(in.CardIDs) * len(in.LabelIDs)
	return s.finishBulk(opAddLabels, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: pairs,
		Message: fmt.Sprintf("Added %d label(s) to %d card(s)", len(in.LabelIDs), len(in.CardIDs)),
	}, err)
}

// pairInsert describes an insert-or-ignore over a card join table.
type pairInsert struct {
	table    string
	column   string
	stamp    string
	action   string
	noun     string
	cardIDs  []string
	otherIDs []string
}

// insertPairs inserts the cross product of card and other ids, ignoring
// existing pairs, then records one activity per card.
func (s *SQLStore) insertPairs(ctx context.Context, tx *sqlx.Tx, p pairInsert) error {
	q := tx.Rebind(fmt.Sprintf(
		"INSERT INTO %s (card_id, %s, %s) VALUES (?, ?, ?) ON CONFLICT (card_id, %s) DO NOTHING",
		p.table, p.column, p.stamp, p.column,
	))
	now := s.now()

	for _, cardID := range p.cardIDs {
		for _, otherID := range p.otherIDs {
			if _, err := tx.ExecContext(ctx, q, cardID, otherID, now); err != nil {
				return fmt.Errorf("adding %s %s to card %s: %w", p.noun, otherID, cardID, err)
			}
		}
	}

	details := fmt.Sprintf("%d %s(s)", len(p.otherIDs), p.noun)
	return s.appendActivities(ctx, tx, p.cardIDs, p.action, details)
}

// SetDueDate sets the due date of every card, or clears it when DueDate is
// nil. Updated counts the requested cards.
func (s *SQLStore) SetDueDate(
	ctx context.Context,
	in model.SetDueDateInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 {
		return s.finishBulk(opSetDueDate, 0, emptyResult("No cards to update"), nil)
	}

	action, details, message := model.ActionDueDateRemoved, "", "Removed due date"
	if in.DueDate != nil {
		action = model.ActionDueDateSet
		details = in.DueDate.Format(dueDateLayout)
		message = "Set due date to " + details
	}

	err := s.withTransaction(ctx, opSetDueDate, func(tx *sqlx.Tx) error {
		placeholders, args := inClause(in.CardIDs)
		q := fmt.Sprintf("UPDATE %s SET due_date = ?, updated_at = ? WHERE id IN (%s)", tableCards, placeholders)
		args = append([]interface{}{in.DueDate, s.now()}, args...)
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return fmt.Errorf("updating due date of %d card(s): %w", len(in.CardIDs), err)
		}
		return s.appendActivities(ctx, tx, in.CardIDs, action, details)
	})

	return s.finishBulk(opSetDueDate, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: len(in.CardIDs),
		Message: fmt.Sprintf("%s on %d card(s)", message, len(in.CardIDs)),
	}, err)
}

// ArchiveCards marks every card archived.
func (s *SQLStore) ArchiveCards(
	ctx context.Context,
	in model.CardIDsInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 {
		return s.finishBulk(opArchiveCards, 0, emptyResult("No cards to archive"), nil)
	}

	err := s.withTransaction(ctx, opArchiveCards, func(tx *sqlx.Tx) error {
		placeholders, args := inClause(in.CardIDs)
		q := fmt.Sprintf("UPDATE %s SET status = ?, updated_at = ? WHERE id IN (%s)", tableCards, placeholders)
		args = append([]interface{}{model.CardStatusArchived, s.now()}, args...)
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return fmt.Errorf("archiving %d card(s): %w", len(in.CardIDs), err)
		}
		return s.appendActivities(ctx, tx, in.CardIDs, model.ActionArchived, "")
	})

	return s.finishBulk(opArchiveCards, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: len(in.CardIDs),
		Message: fmt.Sprintf("Archived %d card(s)", len(in.CardIDs)),
	}, err)
}

// DeleteCards removes the cards and all of their dependents. Remaining
// cards keep their order values, so lists may contain gaps afterwards.
func (s *SQLStore) DeleteCards(
	ctx context.Context,
	in model.CardIDsInput,
) (model.BulkResult, error) {
	if len(in.CardIDs) == 0 {
		return s.finishBulk(opDeleteCards, 0, emptyResult("No cards to delete"), nil)
	}

	err := s.withTransaction(ctx, opDeleteCards, func(tx *sqlx.Tx) error {
		_, err := deleteCardsCascade(ctx, tx, in.CardIDs)
		return err
	})

	return s.finishBulk(opDeleteCards, len(in.CardIDs), model.BulkResult{
		Success: true,
		Updated: len(in.CardIDs),
		Message: fmt.Sprintf("Deleted %d card(s)", len(in.CardIDs)),
	}, err)
}
