package main

import (
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func newListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the ordered lists of a board",
	}
	cmd.AddCommand(newListCreateCmd(e))
	cmd.AddCommand(newListRenameCmd(e))
	cmd.AddCommand(newListReorderCmd(e))
	cmd.AddCommand(newListCopyCmd(e))
	cmd.AddCommand(newListDeleteCmd(e))
	return cmd
}

func newListCreateCmd(e *env) *cobra.Command {
	var in model.CreateListInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a list to a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				l, err := s.CreateList(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), l)
			})
		},
	}

	cmd.Flags().StringVar(&in.BoardID, "board", "", "Board id (required)")
	cmd.Flags().StringVar(&in.Title, "title", "", "List title (required)")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListRenameCmd(e *env) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <list-id>",
		Short: "Change the title of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				l, err := s.UpdateListTitle(cmd.Context(), args[0], title)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), l)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title (required)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListReorderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <list-id>=<order>...",
		Short: "Write list positions as given, in one transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseOrderArgs(args, false)
			if err != nil {
				return err
			}
			return e.withStore(func(s *store.SQLStore) error {
				lists, err := s.UpdateListOrder(cmd.Context(), updates)
				if err != nil {
					return err
				}
				for _, l := range lists {
					if err := writeJSONLine(cmd.OutOrStdout(), l); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newListCopyCmd(e *env) *cobra.Command {
	var in model.CopyListInput

	cmd := &cobra.Command{
		Use:   "copy <list-id>",
		Short: "Duplicate a list and its cards at the end of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ID = args[0]
			return e.withStore(func(s *store.SQLStore) error {
				l, err := s.CopyList(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), l)
			})
		},
	}

	cmd.Flags().StringVar(&in.BoardID, "board", "", "Board that receives the copy (required)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func newListDeleteCmd(e *env) *cobra.Command {
	var boardID string

	cmd := &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list with its cards and renumber the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				if err := s.DeleteList(cmd.Context(), boardID, args[0]); err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board id (required)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}
