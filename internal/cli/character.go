package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/internal/character"
	"github.com/chris/lorekeeper/internal/storage"
)

func init() {
	charCmd := &cobra.Command{
		Use:   "char",
		Short: "Manage character cards",
	}

	charCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import a character card (V1/V2/V3 JSON)",
		Args:  cobra.ExactArgs(1),
		Run:   runCharImport,
	})
	charCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List imported characters",
		Run:   runCharList,
	})
	charCmd.AddCommand(&cobra.Command{
		Use:   "show <name-or-id>",
		Short: "Show a character's prompt block",
		Args:  cobra.ExactArgs(1),
		Run:   runCharShow,
	})
	charCmd.AddCommand(&cobra.Command{
		Use:   "activate <name-or-id>",
		Short: "Make a character the active persona",
		Args:  cobra.ExactArgs(1),
		Run:   runCharActivate,
	})
	charCmd.AddCommand(&cobra.Command{
		Use:   "deactivate",
		Short: "Clear the active character",
		Run:   runCharDeactivate,
	})
	charCmd.AddCommand(&cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete an imported character",
		Args:  cobra.ExactArgs(1),
		Run:   runCharDelete,
	})

	RootCmd.AddCommand(charCmd)
}

func runCharImport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read card", err)
	}
	card, spec, err := character.Parse(data)
	if err != nil {
		exitErr("parse card", err)
	}

	store := openStore(loadConfig())
	stored := storage.StoredCharacter{
		ID:         storage.NewID(card.Name),
		Name:       card.Name,
		Spec:       spec,
		ImportedAt: time.Now(),
		SourcePath: args[0],
		Data:       *card,
	}
	if err := store.ImportCharacter(stored); err != nil {
		exitErr("store card", err)
	}
	fmt.Printf("imported %s (%s, %s)\n", stored.Name, stored.ID, spec)
}

func runCharList(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	active := ""
	if a := store.ActiveCharacter(); a != nil {
		active = a.ID
	}
	for _, ref := range store.ListCharacters() {
		marker := " "
		if ref.ID == active {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s\n", marker, ref.Name, ref.ID)
	}
}

func findCharacter(store *storage.Store, nameOrID string) *storage.StoredCharacter {
	if c := store.GetCharacter(nameOrID); c != nil {
		return c
	}
	return store.GetCharacterByName(nameOrID)
}

func runCharShow(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	c := findCharacter(store, args[0])
	if c == nil {
		exitErr("show", fmt.Errorf("character %q not found", args[0]))
	}
	fmt.Println(character.BuildPrompt(&c.Data, character.PromptOptions{IncludePostHistory: true}))
}

func runCharActivate(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	c := findCharacter(store, args[0])
	if c == nil || !store.ActivateCharacter(c.ID) {
		exitErr("activate", fmt.Errorf("character %q not found", args[0]))
	}
	fmt.Printf("active character: %s\n", c.Name)
}

func runCharDeactivate(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	if err := store.DeactivateCharacter(); err != nil {
		exitErr("deactivate", err)
	}
	fmt.Println("no active character")
}

func runCharDelete(cmd *cobra.Command, args []string) {
	store := openStore(loadConfig())
	c := findCharacter(store, args[0])
	if c == nil || !store.DeleteCharacter(c.ID) {
		exitErr("delete", fmt.Errorf("character %q not found", args[0]))
	}
	fmt.Printf("deleted %s\n", c.Name)
}
