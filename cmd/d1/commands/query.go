package commands

import (
	"github.com/spf13/cobra"

	"github.com/kiurchv/go-d1/internal/ui"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(app *App) *cobra.Command {
	var args []string

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run a statement and print the rows it returns",
		Example: `  d1 query 'SELECT * FROM users WHERE id = ?' --arg 1
  d1 query 'SELECT name FROM users LIMIT ?' --arg 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			ctx := cmd.Context()
			conn, err := app.Conn(ctx)
			if err != nil {
				return err
			}

			rows, err := conn.Load(ctx, rawStatement(positional[0], args))
			if err != nil {
				return err
			}
			return ui.PrintRows(rows)
		},
	}

	cmd.Flags().StringArrayVar(&args, "arg", nil, "Bind parameter for the next ? (repeatable)")

	return cmd
}

// NewExecCommand creates the exec command.
func NewExecCommand(app *App) *cobra.Command {
	var args []string

	cmd := &cobra.Command{
		Use:     "exec SQL",
		Short:   "Run a statement and print how many rows it changed",
		Example: `  d1 exec 'UPDATE users SET active = ? WHERE id = ?' --arg false --arg 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			ctx := cmd.Context()
			conn, err := app.Conn(ctx)
			if err != nil {
				return err
			}

			n, err := conn.Execute(ctx, rawStatement(positional[0], args))
			if err != nil {
				return err
			}
			ui.PrintChanges(n)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&args, "arg", nil, "Bind parameter for the next ? (repeatable)")

	return cmd
}
