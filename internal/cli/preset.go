package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/internal/preset"
	"github.com/chris/lorekeeper/internal/storage"
)

func init() {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage generation presets",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a preset",
		Args:  cobra.ExactArgs(1),
		Run:   runPresetImport,
	}
	importCmd.Flags().String("name", "", "Preset name (default: file name)")

	presetCmd.AddCommand(importCmd)
	presetCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List imported presets",
		Run:   runPresetList,
	})
	presetCmd.AddCommand(&cobra.Command{
		Use:   "activate <name-or-id>",
		Short: "Make a preset active",
		Args:  cobra.ExactArgs(1),
		Run:   runPresetActivate,
	})
	presetCmd.AddCommand(&cobra.Command{
		Use:   "deactivate",
		Short: "Clear the active preset",
		Run:   runPresetDeactivate,
	})
	presetCmd.AddCommand(&cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete an imported preset",
		Args:  cobra.ExactArgs(1),
		Run:   runPresetDelete,
	})

	RootCmd.AddCommand(presetCmd)
}

func runPresetImport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read preset", err)
	}
	p, err := preset.Parse(data)
	if err != nil {
		exitErr("parse preset", err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	store := openStore(loadConfig())
	stored := storage.StoredPreset{
		ID:         storage.NewID(name),
		Name:       name,
		ImportedAt: time.Now(),
		SourcePath: args[0],
		Data:       *p,
	}
	if err := store.ImportPreset(stored); err != nil {
		exitErr("store preset", err)
	}
	fmt.Printf("imported %s (%s): %s\n", name, stored.ID, p.Summarize())
}

func runPresetList(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	active := ""
	if a := store.ActivePreset(); a != nil {
		active = a.ID
	}
	for _, ref := range store.ListPresets() {
		marker := " "
		if ref.ID == active {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s\n", marker, ref.Name, ref.ID)
	}
}

func findPreset(store *storage.Store, nameOrID string) *storage.StoredPreset {
	if p := store.GetPreset(nameOrID); p != nil {
		return p
	}
	return store.GetPresetByName(nameOrID)
}

func runPresetActivate(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	p := findPreset(store, args[0])
	if p == nil || !store.ActivatePreset(p.ID) {
		exitErr("activate", fmt.Errorf("preset %q not found", args[0]))
	}
	fmt.Printf("active preset: %s\n", p.Name)
}

func runPresetDeactivate(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	if err := store.DeactivatePreset(); err != nil {
		exitErr("deactivate", err)
	}
	fmt.Println("no active preset")
}

func runPresetDelete(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	p := findPreset(store, args[0])
	if p == nil || !store.DeletePreset(p.ID) {
		exitErr("delete", fmt.Errorf("preset %q not found", args[0]))
	}
	fmt.Printf("deleted %s\n", p.Name)
}
