package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/kanban/internal/model"
)

// Tables touched by ordering, bulk and cascade operations. Statements that
// need a table name take it from here, never from caller input.
const (
	tableBoards         = "boards"
	tableLists          = "lists"
	tableCards          = "cards"
	tableLabels         = "labels"
	tableCardAssignees  = "card_assignees"
	tableCardLabels     = "card_labels"
	tableChecklistItems = "checklist_items"
	tableComments       = "comments"
	tableAttachments    = "attachments"
	tableCardActivities = "card_activities"
)

// cardDependentTables lists, in deletion order, every table keyed by card_id.
var cardDependentTables = []string{
	tableCardAssignees,
	tableCardLabels,
	tableChecklistItems,
	tableComments,
	tableAttachments,
	tableCardActivities,
}

// positionScope names an ordered child table and the column holding the id
// of the parent that partitions its "order" index.
type positionScope struct {
	table        string
	parent       string
	hasUpdatedAt bool
}

var (
	listsInBoard    = positionScope{table: tableLists, parent: "board_id", hasUpdatedAt: true}
	cardsInList     = positionScope{table: tableCards, parent: "list_id", hasUpdatedAt: true}
	checklistInCard = positionScope{table: tableChecklistItems, parent: "card_id"}
)

// positionRow is the minimal projection needed to renumber a scope.
type positionRow struct {
	ID    string `db:"id"`
	Order int    `db:"order"`
}

// maxOrder returns the highest order in the scope. ok is false when the
// scope has no rows.
func maxOrder(
	ctx context.Context,
	tx *sqlx.Tx,
	scope positionScope,
	parentID string,
) (highest int, ok bool, err error) {
	var v sql.NullInt64
	q := fmt.Sprintf(`SELECT MAX("order") FROM %s WHERE %s = ?`, scope.table, scope.parent)
	if err := tx.GetContext(ctx, &v, tx.Rebind(q), parentID); err != nil {
		return 0, false, fmt.Errorf("reading max order of %s in %s: %w", scope.table, parentID, err)
	}
	return int(v.Int64), v.Valid, nil
}

// appendOrder returns the order of a new last child: max+1, or 0 for an
// empty scope.
func appendOrder(
	ctx context.Context,
	tx *sqlx.Tx,
	scope positionScope,
	parentID string,
) (int, error) {
	highest, ok, err := maxOrder(ctx, tx, scope, parentID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return highest + 1, nil
}

// siblings reads every row of the scope in current position order. Ties
// from duplicate orders are broken by creation time, then id.
func siblings(
	ctx context.Context,
	tx *sqlx.Tx,
	scope positionScope,
	parentID string,
) ([]positionRow, error) {
	q := fmt.Sprintf(
		`SELECT id, "order" FROM %s WHERE %s = ? ORDER BY "order", created_at, id`,
		scope.table, scope.parent,
	)
	var rows []positionRow
	if err := tx.SelectContext(ctx, &rows, tx.Rebind(q), parentID); err != nil {
		return nil, fmt.Errorf("reading %s in %s: %w", scope.table, parentID, err)
	}
	return rows, nil
}

// applyOrder is the reorder primitive: each entry is written independently.
// For cards an entry carrying ListID moves the card, updating list_id and
// order in one statement. The batch is trusted; a missing row aborts it.
func (s *SQLStore) applyOrder(
	ctx context.Context,
	tx *sqlx.Tx,
	scope positionScope,
	updates []model.OrderUpdate,
) error {
	now := s.now()
	for _, u := range updates {
		var (
			res sql.Result
			err error
		)
		switch {
		case scope == cardsInList && u.ListID != nil:
			res, err = tx.ExecContext(ctx,
				tx.Rebind(`UPDATE cards SET list_id = ?, "order" = ?, updated_at = ? WHERE id = ?`),
				*u.ListID, u.Order, now, u.ID,
			)
		case scope.hasUpdatedAt:
			q := fmt.Sprintf(`UPDATE %s SET "order" = ?, updated_at = ? WHERE id = ?`, scope.table)
			res, err = tx.ExecContext(ctx, tx.Rebind(q), u.Order, now, u.ID)
		default:
			q := fmt.Sprintf(`UPDATE %s SET "order" = ? WHERE id = ?`, scope.table)
			res, err = tx.ExecContext(ctx, tx.Rebind(q), u.Order, u.ID)
		}
		if err != nil {
			return fmt.Errorf("updating order of %s %s: %w", scope.table, u.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s %s: %w", scope.table, u.ID, ErrNotFound)
		}
	}
	return nil
}

// renumber rewrites the scope to orders 0..n-1 in current position order
// and reports how many rows held a different order before.
func (s *SQLStore) renumber(
	ctx context.Context,
	tx *sqlx.Tx,
	scope positionScope,
	parentID string,
) (int, error) {
	rows, err := siblings(ctx, tx, scope, parentID)
	if err != nil {
		return 0, err
	}

	changed := 0
	updates := make([]model.OrderUpdate, len(rows))
	for i, r := range rows {
		updates[i] = model.OrderUpdate{ID: r.ID, Order: i}
		if r.Order != i {
			changed++
		}
	}

	if err := s.applyOrder(ctx, tx, scope, updates); err != nil {
		return 0, err
	}
	return changed, nil
}

// inClause returns "?, ?, ..." for len(ids) placeholders and the matching
// args.
func inClause(ids []string) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

// boolToInt converts a boolean to 0 or 1 for INTEGER flag columns.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
