package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/config"
	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/prompt"
	"github.com/xdg/llvmbuilder/internal/term"
)

// Replaced in tests.
var selectPrompter prompt.Prompter = prompt.NewStdinPrompter(os.Stdin, os.Stdout)

var (
	presetForce bool
	presetYes   bool
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved presets",
	Long: `Manage presets: named sets of build options stored as YAML files in
~/.config/llvmbuilder/configurations/ (or presets.dir in the config file).

Use --preset NAME with any command to start from a preset.`,
	Aliases: []string{"presets"},
}

var presetListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List saved presets",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runPresetList,
}

var presetSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the resolved build options as a preset",
	Long: `Save the resolved build options (field defaults, --preset and --set applied)
as preset NAME. An existing preset is only replaced with --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runPresetSave,
}

var presetLoadCmd = &cobra.Command{
	Use:   "load [NAME]",
	Short: "Make a preset's paths and components the remembered defaults",
	Long: `Copy the paths, component lists and compilers of preset NAME into the
remembered field defaults, so later commands start from them without
--preset. Without NAME, choose from a list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresetLoad,
}

var presetShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a preset file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetShow,
}

var presetDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Short:   "Delete a preset",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    runPresetDelete,
}

var presetEditCmd = &cobra.Command{
	Use:   "edit NAME",
	Short: "Edit a preset in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetEdit,
}

var presetImportCmd = &cobra.Command{
	Use:   "import NAME FILE",
	Short: "Import a settings file as a preset",
	Long: `Import FILE as preset NAME. FILE may be a preset from another machine or
a JSON configuration saved by the desktop version; unknown keys are ignored
and missing keys take their built-in defaults.`,
	Args: cobra.ExactArgs(2),
	RunE: runPresetImport,
}

func init() {
	presetSaveCmd.Flags().BoolVarP(&presetForce, "force", "f", false, "replace an existing preset")
	presetImportCmd.Flags().BoolVarP(&presetForce, "force", "f", false, "replace an existing preset")
	presetDeleteCmd.Flags().BoolVarP(&presetYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetLoadCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	presetCmd.AddCommand(presetEditCmd)
	presetCmd.AddCommand(presetImportCmd)
}

func runPresetList(cmd *cobra.Command, args []string) error {
	names, err := presetStore().List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		term.Println("No saved presets.")
		return nil
	}
	for _, n := range names {
		term.Println(n)
	}
	return nil
}

func runPresetSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	store := presetStore()
	if presetForce && store.Exists(name) {
		clog.Info("replacing preset %s", name)
	}
	if err := store.Save(name, st, presetForce); err != nil {
		return presetError(err, name)
	}
	term.Success("Saved preset %s", name)
	return nil
}

func runPresetLoad(cmd *cobra.Command, args []string) error {
	store := presetStore()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		chosen, err := choosePreset()
		if err != nil {
			return err
		}
		name = chosen
	}

	st, err := store.Load(name)
	if err != nil {
		return presetError(err, name)
	}
	fd, err := openFieldDefaults()
	if err != nil {
		return err
	}
	if err := fd.Remember(st); err != nil {
		return fmt.Errorf("failed to save field defaults: %w", err)
	}
	clog.Info("loaded preset %s into field defaults", name)
	term.Success("Loaded preset %s", name)
	return nil
}

func choosePreset() (string, error) {
	names, err := presetStore().List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no saved presets")
	}
	if !isInteractive() {
		return "", fmt.Errorf("a preset name is required when not running in a terminal")
	}
	idx, err := selectPrompter.Prompt("Select a preset:", names, 0)
	if err != nil {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}
	return names[idx], nil
}

func runPresetShow(cmd *cobra.Command, args []string) error {
	data, err := presetStore().Read(args[0])
	if err != nil {
		return presetError(err, args[0])
	}
	term.Print(string(data))
	return nil
}

func runPresetDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	store := presetStore()
	if _, err := store.Read(name); err != nil {
		return presetError(err, name)
	}

	if !presetYes {
		ok, err := prompt.Confirm(confirmPrompter, isInteractive(), fmt.Sprintf("Delete preset %s?", name), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := store.Delete(name); err != nil {
		return presetError(err, name)
	}
	term.Success("Deleted preset %s", name)
	return nil
}

func runPresetEdit(cmd *cobra.Command, args []string) error {
	name := args[0]
	store := presetStore()
	if _, err := store.Read(name); err != nil {
		return presetError(err, name)
	}

	if err := config.OpenEditor(store.Path(name)); err != nil {
		return fmt.Errorf("failed to edit preset: %w", err)
	}
	if _, err := store.Load(name); err != nil {
		term.Warn("preset %s has errors after edit: %v", name, err)
	}
	return nil
}

func runPresetImport(cmd *cobra.Command, args []string) error {
	name, file := args[0], pathutil.Expand(args[1])
	if err := presetStore().Import(name, file, presetForce); err != nil {
		return presetError(err, name)
	}
	term.Success("Imported %s as preset %s", pathutil.Collapse(file), name)
	return nil
}
