package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/settings"
	"github.com/xdg/llvmbuilder/internal/term"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List known projects and runtimes",
	Long: `List the LLVM projects and runtimes llvmbuilder knows about. Entries
selected by the resolved build options are marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}

	printCatalog("Projects (LLVM_ENABLE_PROJECTS)", settings.ProjectCatalog, st.ProjectList())
	term.Println()
	printCatalog("Runtimes (LLVM_ENABLE_RUNTIMES)", settings.RuntimeCatalog, st.RuntimeList())
	return nil
}

func printCatalog(title string, catalog, selected []string) {
	term.Heading("%s", title)
	for _, name := range catalog {
		mark := " "
		if slices.Contains(selected, name) {
			mark = "*"
		}
		term.Printf("  %s %s\n", mark, name)
	}
}
