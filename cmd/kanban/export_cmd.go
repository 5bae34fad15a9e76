package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/export"
	"github.com/nhle/kanban/internal/store"
)

type exportOptions struct {
	boardID string
	output  string
}

func newExportCmd(e *env) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a board as an .xlsx workbook, one sheet per list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(s *store.SQLStore) error {
				snap, err := s.GetBoardSnapshot(cmd.Context(), opts.boardID)
				if err != nil {
					return err
				}

				path := opts.output
				if path == "" {
					path = export.FileName(snap.Board)
				}
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("creating output directory: %w", err)
					}
				}

				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				if err := export.WriteBoard(f, snap); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing %s: %w", path, err)
				}

				return writeJSONLine(cmd.OutOrStdout(), map[string]any{
					"board":  snap.Board.ID,
					"lists":  len(snap.Lists),
					"output": path,
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.boardID, "board", "", "Board id (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output file (default <board-title>.xlsx)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}
