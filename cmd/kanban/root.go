package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// env is shared by every subcommand once the root pre-run has loaded the
// configuration.
type env struct {
	configPath string
	cfg        *model.AppConfig
	logger     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{logger: logrus.New()}

	cmd := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban boards with ordered lists, cards and bulk card operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})
	cmd.PersistentFlags().StringVar(&e.configPath, "config", model.DefaultConfigPath(), "Path to the YAML config file")

	cmd.AddCommand(newTUICmd(e))
	cmd.AddCommand(newMigrateCmd(e))
	cmd.AddCommand(newSeedCmd(e))
	cmd.AddCommand(newBoardCmd(e))
	cmd.AddCommand(newListCmd(e))
	cmd.AddCommand(newCardCmd(e))
	cmd.AddCommand(newBulkCmd(e))
	cmd.AddCommand(newRenumberCmd(e))
	cmd.AddCommand(newExportCmd(e))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

// load reads the config file and configures the logger from it.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := model.LoadConfig(e.configPath)
	if err != nil {
		return withCode(exitConfig, err)
	}
	e.cfg = cfg

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return withCode(exitConfig, fmt.Errorf("invalid log level: %w", err))
	}
	e.logger.SetLevel(level)
	e.logger.SetOutput(cmd.ErrOrStderr())
	if strings.EqualFold(cfg.Log.Format, "json") {
		e.logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		e.logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// openStore connects to the configured database, creating the directory of
// a SQLite file when needed.
func (e *env) openStore() (*store.SQLStore, error) {
	db := e.cfg.Database
	if db.Driver == store.DriverSQLite && db.DSN != ":memory:" && !strings.HasPrefix(db.DSN, "file:") {
		if err := os.MkdirAll(filepath.Dir(db.DSN), 0o755); err != nil {
			return nil, withCode(exitDB, fmt.Errorf("creating database directory: %w", err))
		}
	}

	s, err := store.Open(store.Options{
		Driver: db.Driver,
		DSN:    db.DSN,
		Logger: e.logger,
	})
	if err != nil {
		return nil, withCode(exitDB, err)
	}
	return s, nil
}

// withStore opens the store, runs fn and closes the store.
func (e *env) withStore(fn func(s *store.SQLStore) error) error {
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
