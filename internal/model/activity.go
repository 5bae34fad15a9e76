package model

import "time"

// Activity actions recorded against cards.
const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionMoved          = "moved"
	ActionAssigned       = "assigned"
	ActionLabeled        = "labeled"
	ActionDueDateSet     = "due_date_set"
	ActionDueDateRemoved = "due_date_removed"
	ActionArchived       = "archived"
	ActionCopied         = "copied"
)

// CardActivity is one append-only audit row for a card.
type CardActivity struct {
	ID        string    `json:"id" db:"id"`
	CardID    string    `json:"card_id" db:"card_id"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
