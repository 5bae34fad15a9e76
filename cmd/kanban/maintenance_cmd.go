package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				v, err := s.SchemaVersion(cmd.Context())
				if err != nil {
					return withCode(exitDB, err)
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]any{
					"driver":         e.cfg.Database.Driver,
					"schema_version": v,
				})
			})
		},
	}
}

func newRenumberCmd(e *env) *cobra.Command {
	var boardID, listID string

	cmd := &cobra.Command{
		Use:   "renumber",
		Short: "Rewrite positions to a dense 0..n-1 sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				var (
					changed int
					err     error
				)
				if boardID != "" {
					changed, err = s.RenumberBoard(cmd.Context(), boardID)
				} else {
					changed, err = s.RenumberList(cmd.Context(), listID)
				}
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]int{"changed": changed})
			})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Renumber a board's lists and all their cards")
	cmd.Flags().StringVar(&listID, "list", "", "Renumber the cards of one list")
	cmd.MarkFlagsOneRequired("board", "list")
	cmd.MarkFlagsMutuallyExclusive("board", "list")
	return cmd
}

func newSeedCmd(e *env) *cobra.Command {
	var org, title string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample board to try the client with",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				snap, err := seedBoard(cmd.Context(), s, org, title)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), snap)
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "default", "Organization id")
	cmd.Flags().StringVar(&title, "title", "Getting started", "Board title")
	return cmd
}

// seedBoard creates a board with three lists and a few cards, labels and
// assignees spread across them.
func seedBoard(ctx context.Context, s store.Store, org, title string) (*model.BoardSnapshot, error) {
	b, err := s.CreateBoard(ctx, model.CreateBoardInput{OrganizationID: org, Title: title})
	if err != nil {
		return nil, err
	}

	seed := []struct {
		list  string
		cards []model.CreateCardInput
	}{
		{"Todo", []model.CreateCardInput{
			{Title: "Write the onboarding guide", Priority: model.PriorityHigh},
			{Title: "Collect feedback from the pilot", Priority: model.PriorityMedium},
			{Title: "Tidy up the backlog", Priority: model.PriorityLow},
		}},
		{"Doing", []model.CreateCardInput{
			{Title: "Set up the release checklist", Priority: model.PriorityCritical},
		}},
		{"Done", []model.CreateCardInput{
			{Title: "Create this board", Priority: model.PriorityMedium},
		}},
	}

	var first []string
	for _, sl := range seed {
		l, err := s.CreateList(ctx, model.CreateListInput{BoardID: b.ID, Title: sl.list})
		if err != nil {
			return nil, err
		}
		for _, in := range sl.cards {
			in.ListID = l.ID
			c, err := s.CreateCard(ctx, in)
			if err != nil {
				return nil, err
			}
			if len(first) < 2 {
				first = append(first, c.ID)
			}
		}
	}

	due := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	if _, err := s.SetDueDate(ctx, model.SetDueDateInput{CardIDs: first, DueDate: &due}); err != nil {
		return nil, err
	}
	label, err := s.EnsureLabel(ctx, b.ID, "docs", "#5B9BD5")
	if err != nil {
		return nil, err
	}
	if _, err := s.AddLabels(ctx, model.AddLabelsInput{CardIDs: first, LabelIDs: []string{label.ID}}); err != nil {
		return nil, err
	}
	if _, err := s.AssignUsers(ctx, model.AssignUsersInput{CardIDs: first[:1], UserIDs: []string{"me"}}); err != nil {
		return nil, fmt.Errorf("assigning seed cards: %w", err)
	}

	return s.GetBoardSnapshot(ctx, b.ID)
}
