package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/internal/storage"
	"github.com/chris/lorekeeper/internal/worldinfo"
)

func init() {
	wiCmd := &cobra.Command{
		Use:   "wi",
		Short: "Manage world info books",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a world info book",
		Args:  cobra.ExactArgs(1),
		Run:   runWIImport,
	}
	importCmd.Flags().String("name", "", "Book name (default: file name)")

	wiCmd.AddCommand(importCmd)
	wiCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List imported books",
		Run:   runWIList,
	})
	wiCmd.AddCommand(&cobra.Command{
		Use:   "enable <name-or-id>",
		Short: "Enable a book for prompt assembly",
		Args:  cobra.ExactArgs(1),
		Run:   runWIToggle(true),
	})
	wiCmd.AddCommand(&cobra.Command{
		Use:   "disable <name-or-id>",
		Short: "Disable a book",
		Args:  cobra.ExactArgs(1),
		Run:   runWIToggle(false),
	})
	wiCmd.AddCommand(&cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete an imported book",
		Args:  cobra.ExactArgs(1),
		Run:   runWIDelete,
	})

	RootCmd.AddCommand(wiCmd)
}

func runWIImport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read book", err)
	}
	book, err := worldinfo.Parse(data)
	if err != nil {
		exitErr("parse book", err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	store := openStore(loadConfig())
	stored := storage.StoredBook{
		ID:         storage.NewID(name),
		Name:       name,
		ImportedAt: time.Now(),
		SourcePath: args[0],
		Enabled:    true,
		Entries:    book.Entries,
	}
	if err := store.ImportWorldInfo(stored); err != nil {
		exitErr("store book", err)
	}
	fmt.Printf("imported %s (%s): %s\n", name, stored.ID, worldinfo.Summarize(book))
}

func runWIList(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	for _, ref := range store.ListWorldInfo() {
		state := "disabled"
		if ref.Enabled {
			state = "enabled"
		}
		fmt.Printf("%-24s %-10s %3d entries  %s\n", ref.Name, state, ref.EntryCount, ref.ID)
	}
}

func runWIToggle(enabled bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		store := openStore(loadConfig())
		book := store.FindWorldInfo(args[0])
		if book == nil || !store.SetWorldInfoEnabled(book.ID, enabled) {
			exitErr("toggle", fmt.Errorf("book %q not found", args[0]))
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		fmt.Printf("%s %s\n", book.Name, state)
	}
}

func runWIDelete(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	book := store.FindWorldInfo(args[0])
	if book == nil || !store.DeleteWorldInfo(book.ID) {
		exitErr("delete", fmt.Errorf("book %q not found", args[0]))
	}
	fmt.Printf("deleted %s\n", book.Name)
}
