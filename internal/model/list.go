package model

import "time"

// List is an ordered column on a board. Order is dense and zero-based
// within BoardID.
type List struct {
	ID        string    `json:"id" db:"id"`
	BoardID   string    `json:"board_id" db:"board_id"`
	Title     string    `json:"title" db:"title"`
	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateListInput is the payload for appending a list to a board.
type CreateListInput struct {
	BoardID string `json:"board_id" validate:"required"`
	Title   string `json:"title" validate:"required,max=255"`
}

// CopyListInput identifies the list to duplicate and the board that receives
// the copy.
type CopyListInput struct {
	ID      string `json:"id" validate:"required"`
	BoardID string `json:"board_id" validate:"required"`
}

// OrderUpdate is one entry of a reorder batch. ListID is only honoured for
// cards and moves the card to another list together with its new order.
type OrderUpdate struct {
	ID     string  `json:"id"`
	Order  int     `json:"order"`
	ListID *string `json:"list_id,omitempty"`
}
