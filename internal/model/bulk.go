package model

import "time"

// BulkResult is returned by every bulk operation. Updated counts attempted
// rows or pairs, not rows whose value actually changed.
type BulkResult struct {
	Success bool   `json:"success"`
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// MoveCardsInput moves cards to the end of TargetListID, in slice order.
type MoveCardsInput struct {
	CardIDs      []string `json:"card_ids"`
	TargetListID string   `json:"target_list_id"`
}

// AssignUsersInput attaches every user to every card.
type AssignUsersInput struct {
	CardIDs []string `json:"card_ids"`
	UserIDs []string `json:"user_ids"`
}

// AddLabelsInput attaches every label to every card.
type AddLabelsInput struct {
	CardIDs  []string `json:"card_ids"`
	LabelIDs []string `json:"label_ids"`
}

// SetDueDateInput sets or, when DueDate is nil, clears the due date.
type SetDueDateInput struct {
	CardIDs []string   `json:"card_ids"`
	DueDate *time.Time `json:"due_date"`
}

// CardIDsInput is the payload of operations that only need card ids.
type CardIDsInput struct {
	CardIDs []string `json:"card_ids"`
}
