// Package cli implements the lorekeeper CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/config"
	"github.com/chris/lorekeeper/internal/memory"
	"github.com/chris/lorekeeper/internal/storage"
)

var (
	homeFlag      string
	workspaceFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "lorekeeper",
	Short: "Persona and lore configuration for AI agents",
	Long:  "Manages character cards, world info books, presets, and long-term memories, and assembles them into agent prompts.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Storage root (default: $LOREKEEPER_HOME or ~/.lorekeeper)")
	RootCmd.PersistentFlags().StringVar(&workspaceFlag, "workspace", "", "Agent workspace (default: $LOREKEEPER_WORKSPACE or ./workspace)")
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if homeFlag != "" {
		cfg.Home = homeFlag
	}
	if workspaceFlag != "" {
		cfg.Workspace = workspaceFlag
	}
	return cfg
}

func openStore(cfg *config.Config) *storage.Store {
	return storage.New(cfg.Home)
}

func openMemory(cfg *config.Config) *memory.Store {
	mem, err := memory.NewStore(cfg.Home)
	if err != nil {
		exitErr("open memory store", err)
	}
	return mem
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
