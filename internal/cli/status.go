package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show store contents and active selections",
		Run:   runStatus,
	})
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := openStore(cfg).GetStatus()

	none := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}
	fmt.Printf("home:             %s\n", cfg.Home)
	fmt.Printf("workspace:        %s\n", cfg.Workspace)
	fmt.Printf("characters:       %d (active: %s)\n", st.Characters, none(st.ActiveCharacter))
	fmt.Printf("world info books: %d (%d enabled)\n", st.WorldInfoBooks, st.WorldInfoEnabled)
	fmt.Printf("presets:          %d (active: %s)\n", st.Presets, none(st.ActivePreset))

	books := openMemory(cfg).ListBooks()
	memories := 0
	for _, b := range books {
		memories += b.Entries
	}
	fmt.Printf("memory books:     %d (%d memories)\n", len(books), memories)
}
