// Package commands implements the d1 CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kiurchv/go-d1/client"
	"github.com/kiurchv/go-d1/host/sqlitehost"
	"github.com/kiurchv/go-d1/internal/config"
	"github.com/kiurchv/go-d1/internal/debug"
)

// App carries the loaded configuration and the lazily opened connection
// shared by all commands of one invocation.
type App struct {
	cfg  *config.Config
	db   *sqlitehost.DB
	conn *client.Conn
}

// NewApp creates an App for cfg. Nothing is opened until a command needs
// the database.
func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// Config returns the effective configuration, including flag overrides.
func (a *App) Config() *config.Config { return a.cfg }

// Conn opens the configured database on first use.
func (a *App) Conn(ctx context.Context) (*client.Conn, error) {
	if a.conn != nil {
		return a.conn, nil
	}

	db, err := sqlitehost.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.conn = client.New(db, client.WithMiddleware(client.LoggingMiddleware(debug.Logger())))
	return a.conn, nil
}

// Close releases the database if it was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db, a.conn = nil, nil
	return err
}

// NewRootCommand builds the d1 command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "d1",
		Short:         "Run SQL against a SQLite database through the D1 driver adapter",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case app.cfg.Debug && app.cfg.LogJSON:
				debug.SetOutput(cmd.ErrOrStderr(), true)
			case app.cfg.Debug:
				debug.Init(true)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.cfg.Database, "db", app.cfg.Database, "SQLite database file")
	flags.BoolVar(&app.cfg.Debug, "debug", app.cfg.Debug, "Log every statement to stderr")

	rootCmd.AddCommand(NewQueryCommand(app))
	rootCmd.AddCommand(NewExecCommand(app))
	rootCmd.AddCommand(NewRunCommand(app))
	rootCmd.AddCommand(NewTxCommand(app))
	rootCmd.AddCommand(NewConfigCommand(app))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

func readSQLFile(path string) (string, error) {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
