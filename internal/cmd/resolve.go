package cmd

import (
	"fmt"
	"strings"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/fielddefaults"
	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/presets"
	"github.com/xdg/llvmbuilder/internal/render"
	"github.com/xdg/llvmbuilder/internal/settings"
	"github.com/xdg/llvmbuilder/internal/term"
)

func presetStore() *presets.Store {
	return presets.NewStore(appConfig.PresetsDir())
}

func openFieldDefaults() (*fielddefaults.Store, error) {
	fd, err := fielddefaults.Open(appConfig.FieldDefaultsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load field defaults: %w", err)
	}
	return fd, nil
}

func newRenderer() *render.Renderer {
	return render.New(render.Options{
		CMakePath: appConfig.Build.CMakePath,
		Jobs:      appConfig.Build.Jobs,
	})
}

// resolveSettings builds the settings record for this invocation:
// built-in defaults, then field defaults, then --preset, then --set, then
// conflict resolution. Components removed by conflict resolution and names
// outside the catalog are reported as warnings.
func resolveSettings() (*settings.Settings, error) {
	st, err := baseSettings()
	if err != nil {
		return nil, err
	}

	if flagPreset != "" {
		if err := presetStore().LoadInto(flagPreset, st); err != nil {
			return nil, presetError(err, flagPreset)
		}
		clog.Debug("applied preset %s", flagPreset)
	}

	if err := applyOverrides(st, flagSet); err != nil {
		return nil, err
	}
	if st.ApplyBotMode() {
		clog.Debug("bot mode forced unattended settings")
	}

	warnUnknownComponents(st)
	if removed := st.ResolveConflicts(); len(removed) > 0 {
		term.Warn("%s selected as both project and runtime; building as runtime only", strings.Join(removed, ", "))
	}
	return st, nil
}

// baseSettings returns the built-in defaults with remembered field
// defaults applied.
func baseSettings() (*settings.Settings, error) {
	st := settings.Default()
	fd, err := openFieldDefaults()
	if err != nil {
		return nil, err
	}
	if err := fd.Apply(st); err != nil {
		return nil, err
	}
	return st, nil
}

// applyOverrides applies key=value assignments to st in order. Path
// values have ~ and environment variables expanded.
func applyOverrides(st *settings.Settings, assignments []string) error {
	for _, a := range assignments {
		key, value, err := splitAssignment(a)
		if err != nil {
			return err
		}
		if settings.IsPathKey(key) {
			value = pathutil.Expand(value)
		}
		if err := st.Set(key, value); err != nil {
			if kerr := keyError(err, key); kerr != nil {
				return kerr
			}
			return err
		}
	}
	return nil
}

func splitAssignment(a string) (string, string, error) {
	key, value, ok := strings.Cut(a, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q: expected key=value", a)
	}
	return key, value, nil
}

func warnUnknownComponents(st *settings.Settings) {
	if unknown := settings.UnknownComponents(st.ProjectList(), settings.ProjectCatalog); len(unknown) > 0 {
		term.Warn("unknown project(s): %s", strings.Join(unknown, ", "))
	}
	if unknown := settings.UnknownComponents(st.RuntimeList(), settings.RuntimeCatalog); len(unknown) > 0 {
		term.Warn("unknown runtime(s): %s", strings.Join(unknown, ", "))
	}
}
