package model

import "time"

// Priority is the urgency of a card.
type Priority string

// Priority values, lowest to highest.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every valid priority in ascending urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// CardStatusArchived marks a card hidden from the active board.
const CardStatusArchived = "archived"

// Card is an ordered item within a list. Order is dense and zero-based
// within ListID.
type Card struct {
	ID          string     `json:"id" db:"id"`
	ListID      string     `json:"list_id" db:"list_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Status      *string    `json:"status,omitempty" db:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Priority    Priority   `json:"priority" db:"priority"`
	Order       int        `json:"order" db:"order"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsArchived reports whether the card carries the archived status.
func (c Card) IsArchived() bool {
	return c.Status != nil && *c.Status == CardStatusArchived
}

// IsOverdue reports whether the card has a due date in the past.
func (c Card) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && c.DueDate.Before(now) && !c.IsArchived()
}

// CreateCardInput is the payload for appending a card to a list.
type CreateCardInput struct {
	ListID      string     `json:"list_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
}

// UpdateCardDetailsInput replaces the descriptive fields of a card.
type UpdateCardDetailsInput struct {
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority" validate:"required,oneof=low medium high critical"`
}

// ChecklistItem is a sub-entry within a card. Its lifecycle is bound to the
// parent card.
type ChecklistItem struct {
	ID        string    `json:"id" db:"id"`
	CardID    string    `json:"card_id" db:"card_id"`
	Text      string    `json:"text" db:"text"`
	Checked   bool      `json:"checked" db:"checked"`
	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment is a free-text note left on a card.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	CardID    string    `json:"card_id" db:"card_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attachment is the metadata row of a file stored elsewhere.
type Attachment struct {
	ID        string    `json:"id" db:"id"`
	CardID    string    `json:"card_id" db:"card_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileURL   string    `json:"file_url" db:"file_url"`
	MimeType  string    `json:"mime_type" db:"mime_type"`
	Size      int64     `json:"size" db:"size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CardAssignee links a user to a card.
type CardAssignee struct {
	CardID     string    `json:"card_id" db:"card_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// CardLabel links a label to a card.
type CardLabel struct {
	CardID  string    `json:"card_id" db:"card_id"`
	LabelID string    `json:"label_id" db:"label_id"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}
