package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kiurchv/go-d1/internal/ui"
)

// Version information (set at build time).
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(ui.Out, "d1 version %s\n", Version)
			fmt.Fprintf(ui.Out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(ui.Out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(ui.Out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
