package main

import (
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func newBoardCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create, list, show and delete boards",
	}
	cmd.AddCommand(newBoardCreateCmd(e))
	cmd.AddCommand(newBoardListCmd(e))
	cmd.AddCommand(newBoardShowCmd(e))
	cmd.AddCommand(newBoardDeleteCmd(e))
	return cmd
}

func newBoardCreateCmd(e *env) *cobra.Command {
	var in model.CreateBoardInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				b, err := s.CreateBoard(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), b)
			})
		},
	}

	cmd.Flags().StringVar(&in.OrganizationID, "org", "", "Organization id (required)")
	cmd.Flags().StringVar(&in.Title, "title", "", "Board title (required)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBoardListCmd(e *env) *cobra.Command {
	var org string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the boards of an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				boards, err := s.GetBoards(cmd.Context(), org)
				if err != nil {
					return err
				}
				for _, b := range boards {
					if err := writeJSONLine(cmd.OutOrStdout(), b); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "Organization id (required)")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func newBoardShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <board-id>",
		Short: "Print a board with its lists and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				snap, err := s.GetBoardSnapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), snap)
			})
		},
	}
}

func newBoardDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board with its lists, cards and labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				if err := s.DeleteBoard(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			})
		},
	}
}
