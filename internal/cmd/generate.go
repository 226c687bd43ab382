package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/term"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the CMake configure command",
	Long: `Print the CMake configure command for the resolved build options.

The command can be pasted into a shell started in the build directory.`,
	Aliases: []string{"gen"},
	Args:    cobra.NoArgs,
	RunE:    runGenerate,
}

var scriptOutput string

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the full build script",
	Long: `Print the complete build script: source update, configure, build and
install steps, as "llvmbuilder build" would run it.

With dryRun enabled the script is just the configure command.`,
	Args: cobra.NoArgs,
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "write the script to this file instead of stdout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scriptCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	term.Println(newRenderer().ConfigureCommand(st.Snapshot()))
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	script := newRenderer().FullScript(st.Snapshot())

	if scriptOutput == "" {
		term.Print(script)
		return nil
	}

	path := pathutil.Expand(scriptOutput)
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o700); err != nil {
		return fmt.Errorf("failed to make script executable: %w", err)
	}
	term.Success("Wrote build script to %s", pathutil.Collapse(path))
	return nil
}
