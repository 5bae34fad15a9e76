package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/app"
	"github.com/nhle/kanban/internal/store"
)

type tuiOptions struct {
	boardID   string
	org       string
	exportDir string
	logFile   string
}

func newTUICmd(e *env) *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open a board in the terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The client owns the terminal, so logs go to a file or nowhere.
			e.logger.SetOutput(io.Discard)
			if opts.logFile != "" {
				f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("opening log file: %w", err))
				}
				defer f.Close()
				e.logger.SetOutput(f)
			}
			log := e.logger.WithField("component", "cli")

			return e.withStore(func(s *store.SQLStore) error {
				boardID := opts.boardID
				if boardID == "" {
					boards, err := s.GetBoards(cmd.Context(), opts.org)
					if err != nil {
						return err
					}
					if len(boards) == 0 {
						return withCode(exitNotFound, fmt.Errorf("organization %q has no boards, run `kanban seed` first", opts.org))
					}
					boardID = boards[0].ID
				}

				if addr := e.cfg.Metrics.Addr; addr != "" {
					srv := startMetricsServer(addr, log)
					defer srv.Close()
				}

				m := app.New(s, app.Options{
					BoardID:         boardID,
					ExportDir:       opts.exportDir,
					RefreshInterval: time.Duration(e.cfg.Display.RefreshSeconds) * time.Second,
					Logger:          log,
				})
				if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
					return fmt.Errorf("running terminal client: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.boardID, "board", "", "Board id (default: first board of --org)")
	cmd.Flags().StringVar(&opts.org, "org", "default", "Organization whose first board is opened")
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", ".", "Directory for exports")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	return cmd
}
