package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/fielddefaults"
	"github.com/xdg/llvmbuilder/internal/presets"
	"github.com/xdg/llvmbuilder/internal/settings"
	"github.com/xdg/llvmbuilder/internal/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change build options",
	Long: `Inspect and change build options.

"show" prints the options the other commands would use. "set" and "reset"
change a saved preset and need --preset.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show [key...]",
	Short: "Show the resolved build options",
	Long: `Print the resolved build options as YAML, after field defaults, --preset,
--set and conflict resolution. With keys, print only their values, one per
line.`,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change options in the preset named by --preset",
	Long: `Assign options in the preset named by --preset and save it. The preset is
created from the current defaults if it does not exist yet.

Boolean options accept true/false, on/off, yes/no and 1/0. Enabling noLto
clears fullLto and the other way round.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the preset named by --preset to the built-in defaults",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List option keys",
	Long:  `List every option key with its type and built-in default.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		for _, key := range args {
			v, ok := st.Get(key)
			if !ok {
				return keyError(settings.ErrUnknownKey, key)
			}
			term.Println(v)
		}
		return nil
	}

	data, err := st.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	term.Print(string(data))
	return nil
}

func requirePreset(action string) error {
	if flagPreset == "" {
		return fmt.Errorf("%s needs --preset; use \"llvmbuilder defaults\" to change remembered defaults", action)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requirePreset("settings set"); err != nil {
		return err
	}
	store := presetStore()

	st, err := store.Load(flagPreset)
	if errors.Is(err, presets.ErrNotFound) {
		st, err = baseSettings()
	}
	if err != nil {
		return presetError(err, flagPreset)
	}

	if err := applyOverrides(st, append(append([]string(nil), flagSet...), args...)); err != nil {
		return err
	}
	if err := store.Save(flagPreset, st, true); err != nil {
		return presetError(err, flagPreset)
	}
	term.Success("Saved preset %s", flagPreset)
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if err := requirePreset("settings reset"); err != nil {
		return err
	}
	if err := presetStore().Save(flagPreset, settings.Default(), true); err != nil {
		return presetError(err, flagPreset)
	}
	term.Success("Reset preset %s to the built-in defaults", flagPreset)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, args []string) error {
	def := settings.Default()

	w := tabwriter.NewWriter(term.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tDEFAULT\tREMEMBERED")
	for _, key := range settings.Keys() {
		kind := "text"
		switch {
		case settings.IsBoolKey(key):
			kind = "bool"
		case settings.IsPathKey(key):
			kind = "path"
		}
		remembered := ""
		if fielddefaults.IsDefaultable(key) {
			remembered = "yes"
		}
		v, _ := def.Get(key)
		if v == "" {
			v = `""`
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, kind, v, remembered)
	}
	return w.Flush()
}
