// Package main is the entry point for the d1 CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kiurchv/go-d1/cmd/d1/commands"
	"github.com/kiurchv/go-d1/internal/config"
	"github.com/kiurchv/go-d1/internal/ui"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app := commands.NewApp(cfg)
	defer app.Close()

	commands.Version = Version
	commands.GitCommit = Commit

	return commands.NewRootCommand(app).ExecuteContext(ctx)
}
