package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func newBulkCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one operation to many cards in a single transaction",
	}
	cmd.AddCommand(newBulkMoveCmd(e))
	cmd.AddCommand(newBulkAssignCmd(e))
	cmd.AddCommand(newBulkLabelCmd(e))
	cmd.AddCommand(newBulkDueCmd(e))
	cmd.AddCommand(newBulkArchiveCmd(e))
	cmd.AddCommand(newBulkDeleteCmd(e))
	return cmd
}

// bulkCommand wires the shared --cards flag and prints the BulkResult.
func bulkCommand(
	e *env,
	use, short string,
	run func(ctx context.Context, s *store.SQLStore, cardIDs []string) (model.BulkResult, error),
) *cobra.Command {
	cardIDs := new([]string)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(*cardIDs) == 0 {
				return withCode(exitUsage, fmt.Errorf("--cards must name at least one card"))
			}
			return e.withStore(func(s *store.SQLStore) error {
				res, err := run(cmd.Context(), s, *cardIDs)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringSliceVar(cardIDs, "cards", nil, "Comma-separated card ids (required)")
	_ = cmd.MarkFlagRequired("cards")
	return cmd
}

func newBulkMoveCmd(e *env) *cobra.Command {
	var target string
	cmd := bulkCommand(e, "move", "Move cards to the end of a list",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			return s.MoveCards(ctx, model.MoveCardsInput{CardIDs: ids, TargetListID: target})
		})
	cmd.Flags().StringVar(&target, "to", "", "Target list id (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBulkAssignCmd(e *env) *cobra.Command {
	var users []string
	cmd := bulkCommand(e, "assign", "Assign every user to every card",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			return s.AssignUsers(ctx, model.AssignUsersInput{CardIDs: ids, UserIDs: users})
		})
	cmd.Flags().StringSliceVar(&users, "users", nil, "Comma-separated user ids (required)")
	_ = cmd.MarkFlagRequired("users")
	return cmd
}

func newBulkLabelCmd(e *env) *cobra.Command {
	var (
		boardID string
		labels  []string
	)
	cmd := bulkCommand(e, "label", "Add every label to every card; names are created on the board if missing",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			labelIDs := make([]string, 0, len(labels))
			for _, name := range labels {
				l, err := s.EnsureLabel(ctx, boardID, name, "")
				if err != nil {
					return model.BulkResult{}, err
				}
				labelIDs = append(labelIDs, l.ID)
			}
			return s.AddLabels(ctx, model.AddLabelsInput{CardIDs: ids, LabelIDs: labelIDs})
		})
	cmd.Flags().StringVar(&boardID, "board", "", "Board that owns the labels (required)")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Comma-separated label names (required)")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}

func newBulkDueCmd(e *env) *cobra.Command {
	var (
		date     string
		clearDue bool
	)
	cmd := bulkCommand(e, "due", "Set or clear the due date of cards",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			var due *time.Time
			if !clearDue {
				d, err := parseOptionalDate("date", date)
				if err != nil {
					return model.BulkResult{}, err
				}
				if d == nil {
					return model.BulkResult{}, withCode(exitUsage, fmt.Errorf("either --date or --clear is required"))
				}
				due = d
			}
			return s.SetDueDate(ctx, model.SetDueDateInput{CardIDs: ids, DueDate: due})
		})
	cmd.Flags().StringVar(&date, "date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("date", "clear")
	return cmd
}

func newBulkArchiveCmd(e *env) *cobra.Command {
	cmd := bulkCommand(e, "archive", "Mark cards as archived",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			return s.ArchiveCards(ctx, model.CardIDsInput{CardIDs: ids})
		})
	return cmd
}

func newBulkDeleteCmd(e *env) *cobra.Command {
	cmd := bulkCommand(e, "delete", "Delete cards with all their dependents",
		func(ctx context.Context, s *store.SQLStore, ids []string) (model.BulkResult, error) {
			return s.DeleteCards(ctx, model.CardIDsInput{CardIDs: ids})
		})
	return cmd
}
