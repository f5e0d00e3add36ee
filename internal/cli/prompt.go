package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/lorekeeper/internal/prompt"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "prompt [context...]",
		Short: "Assemble and print the system prompt",
		Long:  "Assembles the system prompt from the workspace, the active persona, and retrieved memories. The context arguments drive world info activation and memory retrieval.",
		Run:   runPrompt,
	})
}

func runPrompt(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	builder := prompt.NewBuilder(cfg, openStore(cfg), openMemory(cfg), newLogger(cfg))

	system := builder.Build(strings.Join(args, " "))
	fmt.Println(system)
	fmt.Fprintf(os.Stderr, "~%d tokens\n", prompt.EstimateTokens(system))
}
