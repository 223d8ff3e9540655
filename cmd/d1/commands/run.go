package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiurchv/go-d1/internal/ui"
	"github.com/kiurchv/go-d1/internal/watch"
	"github.com/kiurchv/go-d1/query/sqlgen"
)

// NewRunCommand creates the run command.
func NewRunCommand(app *App) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a SQL script as one batch",
		Long: `Run every statement in FILE as a single atomic batch. If any
statement fails, none of them take effect.

With --watch the script is rerun every time the file is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := app.Conn(ctx)
			if err != nil {
				return err
			}

			runScript := func(ctx context.Context, file string) error {
				script, err := readSQLFile(file)
				if err != nil {
					return err
				}
				n := len(sqlgen.SplitStatements(script))
				if n == 0 {
					ui.PrintWarning("%s has no statements", file)
					return nil
				}
				start := time.Now()
				if err := conn.BatchExecute(ctx, script); err != nil {
					ui.PrintError("%v", err)
					return err
				}
				ui.PrintSuccess("ran %s from %s in %s", statements(n), file, time.Since(start).Round(time.Millisecond))
				return nil
			}

			if !watchFile {
				return runScript(ctx, args[0])
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(args[0], app.cfg.WatchDebounce, runScript)
			if err != nil {
				return err
			}
			ui.PrintSection("watching " + w.File())
			if err := w.Start(ctx); err != nil {
				return err
			}
			w.Wait()
			return w.Stop()
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Rerun the script whenever the file changes")

	return cmd
}

// NewTxCommand creates the tx command.
func NewTxCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tx FILE",
		Short: "Run a SQL script statement by statement inside a transaction",
		Long: `Split FILE on top-level semicolons, queue each statement inside a
transaction and commit them together. Nothing is sent to the database
until commit, and a failure rolls every statement back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			script, err := readSQLFile(args[0])
			if err != nil {
				return err
			}
			stmts := sqlgen.SplitStatements(script)
			if len(stmts) == 0 {
				ui.PrintWarning("%s has no statements", args[0])
				return nil
			}

			conn, err := app.Conn(ctx)
			if err != nil {
				return err
			}

			err = conn.Transaction(ctx, func(ctx context.Context) error {
				for _, stmt := range stmts {
					if _, err := conn.Execute(ctx, sqlgen.NewRaw(stmt)); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				conn.ResetTransaction()
				return err
			}

			ui.PrintSuccess("committed %s", statements(len(stmts)))
			return nil
		},
	}
}

func statements(n int) string {
	if n == 1 {
		return "1 statement"
	}
	return fmt.Sprintf("%d statements", n)
}
