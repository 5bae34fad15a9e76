package store

import (
	"context"
	"errors"

	"github.com/nhle/kanban/internal/model"
)

var (
	// ErrNotFound is returned when an update or delete targets a row that
	// does not exist in the given parent scope.
	ErrNotFound = errors.New("not found")

	// ErrEmptyTitle is returned when a title is blank after trimming.
	ErrEmptyTitle = errors.New("title must not be empty")
)

// BoardRepository owns board containers.
type BoardRepository interface {
	CreateBoard(ctx context.Context, in model.CreateBoardInput) (*model.Board, error)
	GetBoardByID(ctx context.Context, id string) (*model.Board, error)
	GetBoards(ctx context.Context, organizationID string) ([]model.Board, error)
	GetBoardSnapshot(ctx context.Context, id string) (*model.BoardSnapshot, error)
	DeleteBoard(ctx context.Context, id string) error
}

// ListRepository maintains the dense position index of lists within a
// board.
type ListRepository interface {
	CreateList(ctx context.Context, in model.CreateListInput) (*model.List, error)
	GetListByID(ctx context.Context, id string) (*model.List, error)
	GetListsByBoard(ctx context.Context, boardID string) ([]model.List, error)
	UpdateListTitle(ctx context.Context, id, title string) (*model.List, error)
	UpdateListOrder(ctx context.Context, updates []model.OrderUpdate) ([]model.List, error)
	DeleteList(ctx context.Context, boardID, id string) error
	CopyList(ctx context.Context, in model.CopyListInput) (*model.List, error)
}

// CardRepository maintains the dense position index of cards within a list.
type CardRepository interface {
	CreateCard(ctx context.Context, in model.CreateCardInput) (*model.Card, error)
	GetCardByID(ctx context.Context, id string) (*model.Card, error)
	GetCardsByList(ctx context.Context, listID string) ([]model.Card, error)
	UpdateCardTitle(ctx context.Context, id, title string) (*model.Card, error)
	UpdateCardDetails(ctx context.Context, id string, in model.UpdateCardDetailsInput) (*model.Card, error)
	UpdateCardOrder(ctx context.Context, updates []model.OrderUpdate) ([]model.Card, error)
	DeleteCard(ctx context.Context, listID, id string) error
	GetCardActivities(ctx context.Context, cardID string) ([]model.CardActivity, error)
}

// BulkService performs multi-card mutations atomically, appending one
// activity row per affected card. Callers validate non-empty id slices;
// an empty CardIDs slice is a successful no-op.
type BulkService interface {
	MoveCards(ctx context.Context, in model.MoveCardsInput) (model.BulkResult, error)
	AssignUsers(ctx context.Context, in model.AssignUsersInput) (model.BulkResult, error)
	AddLabels(ctx context.Context, in model.AddLabelsInput) (model.BulkResult, error)
	SetDueDate(ctx context.Context, in model.SetDueDateInput) (model.BulkResult, error)
	ArchiveCards(ctx context.Context, in model.CardIDsInput) (model.BulkResult, error)
	DeleteCards(ctx context.Context, in model.CardIDsInput) (model.BulkResult, error)
}

// AssociationStore holds the minimal single-row helpers for card
// dependents.
type AssociationStore interface {
	CreateLabel(ctx context.Context, boardID, name, color string) (*model.Label, error)
	GetLabelsByBoard(ctx context.Context, boardID string) ([]model.Label, error)
	GetLabelsForCard(ctx context.Context, cardID string) ([]model.Label, error)
	EnsureLabel(ctx context.Context, boardID, name, color string) (*model.Label, error)
	GetAssigneesForCard(ctx context.Context, cardID string) ([]model.CardAssignee, error)
	AddChecklistItem(ctx context.Context, cardID, text string) (*model.ChecklistItem, error)
	GetChecklistItems(ctx context.Context, cardID string) ([]model.ChecklistItem, error)
	AddComment(ctx context.Context, cardID, userID, body string) (*model.Comment, error)
	GetComments(ctx context.Context, cardID string) ([]model.Comment, error)
	AddAttachment(ctx context.Context, a model.Attachment) (*model.Attachment, error)
	GetAttachments(ctx context.Context, cardID string) ([]model.Attachment, error)
}

// Renumberer rewrites position indexes to a dense sequence. It recovers
// from duplicate or gapped orders left by concurrent appends or by bulk
// moves and deletes.
type Renumberer interface {
	RenumberList(ctx context.Context, listID string) (int, error)
	RenumberBoard(ctx context.Context, boardID string) (int, error)
}

// Store is the full persistence surface used by the CLI and the terminal
// client.
type Store interface {
	BoardRepository
	ListRepository
	CardRepository
	BulkService
	AssociationStore
	Renumberer
	Close() error
}

var _ Store = (*SQLStore)(nil)
