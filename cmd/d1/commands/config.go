package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiurchv/go-d1/internal/config"
	"github.com/kiurchv/go-d1/internal/ui"
)

// NewConfigCommand creates the parent config command.
func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save CLI settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := app.Config()
			file := cfg.File
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintf(ui.Out, "config file:    %s\n", file)
			fmt.Fprintf(ui.Out, "database:       %s\n", cfg.Database)
			fmt.Fprintf(ui.Out, "debug:          %t\n", cfg.Debug)
			fmt.Fprintf(ui.Out, "log json:       %t\n", cfg.LogJSON)
			fmt.Fprintf(ui.Out, "watch debounce: %s\n", cfg.WatchDebounce)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective settings to ~/.config/go-d1/.go-d1.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Save(app.Config())
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			ui.PrintSuccess("saved %s", path)
			return nil
		},
	})

	return cmd
}
