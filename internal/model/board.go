package model

import "time"

// Board is the top-level container for ordered lists. Boards belong to an
// organization; authorization against that organization happens upstream.
type Board struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Title          string    `json:"title" db:"title"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBoardInput is the validated payload for creating a board.
type CreateBoardInput struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Title          string `json:"title" validate:"required,max=255"`
}

// BoardSnapshot is a board with its lists and each list's cards, all in
// position order.
type BoardSnapshot struct {
	Board Board          `json:"board"`
	Lists []ListWithCards `json:"lists"`
}

// ListWithCards pairs a list with its cards.
type ListWithCards struct {
	List
	Cards []Card `json:"cards"`
}
