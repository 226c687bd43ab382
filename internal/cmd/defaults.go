package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/fielddefaults"
	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/settings"
	"github.com/xdg/llvmbuilder/internal/term"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Manage remembered field defaults",
	Long: `Manage remembered field defaults: starting values for the paths, component
lists and compilers, applied before --preset and --set.

They are stored in ~/.config/llvmbuilder/defaults.yaml (or defaults.file in
the config file). With defaults.remember enabled, every build updates them.`,
}

var defaultsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List remembered defaults",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runDefaultsList,
}

var defaultsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a remembered default",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefaultsGet,
}

var defaultsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Remember a default value",
	Args:  cobra.ExactArgs(2),
	RunE:  runDefaultsSet,
}

var defaultsUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Forget a remembered default",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefaultsUnset,
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.AddCommand(defaultsListCmd)
	defaultsCmd.AddCommand(defaultsGetCmd)
	defaultsCmd.AddCommand(defaultsSetCmd)
	defaultsCmd.AddCommand(defaultsUnsetCmd)
}

func runDefaultsList(cmd *cobra.Command, args []string) error {
	fd, err := openFieldDefaults()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(term.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, key := range fielddefaults.Fields() {
		v, ok := fd.Get(key)
		if !ok {
			v = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", key, v)
	}
	return w.Flush()
}

func runDefaultsGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !fielddefaults.IsDefaultable(key) {
		return keyError(fielddefaults.ErrNotDefaultable, key)
	}
	fd, err := openFieldDefaults()
	if err != nil {
		return err
	}
	v, ok := fd.Get(key)
	if !ok {
		return fmt.Errorf("no remembered default for %s", key)
	}
	term.Println(v)
	return nil
}

func runDefaultsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if _, ok := settings.Default().Get(key); !ok {
		return keyError(settings.ErrUnknownKey, key)
	}
	if settings.IsPathKey(key) {
		value = pathutil.Expand(value)
	}

	fd, err := openFieldDefaults()
	if err != nil {
		return err
	}
	if err := fd.Set(key, value); err != nil {
		if kerr := keyError(err, key); kerr != nil {
			return kerr
		}
		return err
	}
	term.Success("%s = %s", key, value)
	return nil
}

func runDefaultsUnset(cmd *cobra.Command, args []string) error {
	key := args[0]
	fd, err := openFieldDefaults()
	if err != nil {
		return err
	}
	if err := fd.Delete(key); err != nil {
		if kerr := keyError(err, key); kerr != nil {
			return kerr
		}
		return err
	}
	return nil
}
