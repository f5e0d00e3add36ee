package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/config"
	"github.com/chris/lorekeeper/internal/memory"
)

func init() {
	memCmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage long-term memories",
	}
	memCmd.PersistentFlags().String("book", "", "Memory book ID (default: the active character's book)")

	addCmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runMemAdd,
	}
	addCmd.Flags().String("keywords", "", "Comma-separated keyword tags")
	addCmd.Flags().Int("importance", 50, "Importance 0-100")
	addCmd.Flags().String("category", "", "Category label")

	retrieveCmd := &cobra.Command{
		Use:   "retrieve <context>",
		Short: "Retrieve memories relevant to a context",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMemRetrieve,
	}
	retrieveCmd.Flags().Int("limit", 0, "Max memories (default: book setting)")
	retrieveCmd.Flags().String("sort", "", "Sort strategy: importance, recency, access_count")

	memCmd.AddCommand(addCmd)
	memCmd.AddCommand(retrieveCmd)
	memCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the book's memories",
		Run:   runMemList,
	})
	memCmd.AddCommand(&cobra.Command{
		Use:   "delete <memory-id>",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runMemDelete,
	})
	memCmd.AddCommand(&cobra.Command{
		Use:   "books",
		Short: "List memory books",
		Run:   runMemBooks,
	})

	RootCmd.AddCommand(memCmd)
}

// resolveBookID maps the --book flag, or the active character, to a book.
func resolveBookID(cmd *cobra.Command, cfg *config.Config, mem *memory.Store) string {
	if id, _ := cmd.Flags().GetString("book"); id != "" {
		return id
	}
	charID, charName := "default", cfg.AgentName
	if active := openStore(cfg).ActiveCharacter(); active != nil {
		charID, charName = active.ID, active.Name
	}
	book, err := mem.GetOrCreateBook(charID, charName, "")
	if err != nil {
		exitErr("open memory book", err)
	}
	return book.ID
}

func runMemAdd(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	mem := openMemory(cfg)
	bookID := resolveBookID(cmd, cfg, mem)

	var keywords []string
	if raw, _ := cmd.Flags().GetString("keywords"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
	}
	importance, _ := cmd.Flags().GetInt("importance")
	category, _ := cmd.Flags().GetString("category")

	entry, err := mem.AddMemory(bookID, memory.AddParams{
		Content:    args[0],
		Keywords:   keywords,
		Importance: importance,
		Category:   category,
		Source:     "cli",
	})
	if err != nil {
		exitErr("add memory", err)
	}
	fmt.Printf("added %s to %s\n", entry.ID, bookID)
}

func runMemList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	mem := openMemory(cfg)
	bookID := resolveBookID(cmd, cfg, mem)

	book := mem.LoadBook(bookID)
	if book == nil {
		exitErr("list", fmt.Errorf("book %q not found", bookID))
	}
	for _, e := range book.Entries {
		state := " "
		if !e.Enabled {
			state = "x"
		}
		fmt.Printf("%s %-16s imp=%-3d acc=%-3d %s\n", state, e.ID, e.Importance, e.AccessCount, e.Content)
	}
}

func runMemDelete(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	mem := openMemory(cfg)
	bookID := resolveBookID(cmd, cfg, mem)

	if !mem.DeleteMemory(bookID, args[0]) {
		exitErr("delete", fmt.Errorf("memory %q not found in %s", args[0], bookID))
	}
	fmt.Printf("deleted %s\n", args[0])
}

func runMemRetrieve(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	mem := openMemory(cfg)
	bookID := resolveBookID(cmd, cfg, mem)

	limit, _ := cmd.Flags().GetInt("limit")
	sortBy, _ := cmd.Flags().GetString("sort")

	context := strings.Join(args, " ")
	memories := mem.RetrieveMemories(bookID, context, memory.RetrieveOptions{
		MaxMemories: limit,
		SortBy:      sortBy,
	})
	for _, e := range memories {
		fmt.Printf("%-16s imp=%-3d %s\n", e.ID, e.Importance, e.Content)
	}
}

func runMemBooks(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	mem := openMemory(cfg)
	for _, info := range mem.ListBooks() {
		fmt.Printf("%-32s %-24s %3d memories\n", info.ID, info.Name, info.Entries)
	}
}
