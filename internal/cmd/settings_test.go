package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettingsShow_Keys(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "settings", "show", "--set", "buildDir=/tmp/b", "--set", "useMake=yes", "buildDir", "useMake", "optLevel")
	if err != nil {
		t.Fatalf("settings show error = %v", err)
	}
	if want := "/tmp/b\ntrue\n2\n"; out != want {
		t.Errorf("settings show = %q, want %q", out, want)
	}
}

func TestSettingsShow_YAML(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "settings", "show")
	if err != nil {
		t.Fatalf("settings show error = %v", err)
	}
	for _, want := range []string{"compiler: clang\n", "cleanBuildDir: true\n", "noLto: false\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("settings show missing %q\nGot: %s", want, out)
		}
	}
}

func TestSettingsShow_ResolvesConflicts(t *testing.T) {
	testEnv(t)

	out, stderr, err := execute(t, "settings", "show", "projects", "runtimes",
		"--set", "projects=clang;libcxx;lld", "--set", "runtimes=libcxx;libcxxabi")
	if err != nil {
		t.Fatalf("settings show error = %v", err)
	}
	if want := "clang;lld\nlibcxx;libcxxabi\n"; out != want {
		t.Errorf("settings show = %q, want %q", out, want)
	}
	if !strings.Contains(stderr, "libcxx selected as both project and runtime") {
		t.Errorf("expected conflict warning, got %q", stderr)
	}
}

func TestSettingsShow_UnknownComponentWarning(t *testing.T) {
	testEnv(t)

	_, stderr, err := execute(t, "settings", "show", "--set", "projects=clang;bogus")
	if err != nil {
		t.Fatalf("settings show error = %v", err)
	}
	if !strings.Contains(stderr, "unknown project(s): bogus") {
		t.Errorf("expected unknown project warning, got %q", stderr)
	}
}

func TestSettingsShow_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown key", []string{"settings", "show", "nope"}, "unknown option"},
		{"unknown override", []string{"settings", "show", "--set", "nope=1"}, "unknown option"},
		{"bad assignment", []string{"settings", "show", "--set", "buildDir"}, "expected key=value"},
		{"bad bool", []string{"settings", "show", "--set", "dryRun=maybe"}, "invalid boolean"},
		{"missing preset", []string{"settings", "show", "--preset", "ghost"}, "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestSettingsSet_RequiresPreset(t *testing.T) {
	testEnv(t)
	_, _, err := execute(t, "settings", "set", "optLevel=3")
	if err == nil || !strings.Contains(err.Error(), "needs --preset") {
		t.Fatalf("settings set without --preset error = %v", err)
	}
}

func TestSettingsSet_CreatesAndUpdatesPreset(t *testing.T) {
	dir := testEnv(t)

	if _, _, err := execute(t, "settings", "set", "--preset", "rel", "optLevel=3", "fullLto=on"); err != nil {
		t.Fatalf("settings set error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "configurations", "rel.yaml")); err != nil {
		t.Fatalf("preset file not created: %v", err)
	}

	// noLto clears fullLto on the way in.
	if _, _, err := execute(t, "settings", "set", "-p", "rel", "noLto=true"); err != nil {
		t.Fatalf("settings set error = %v", err)
	}

	out, _, err := execute(t, "settings", "show", "-p", "rel", "optLevel", "noLto", "fullLto")
	if err != nil {
		t.Fatalf("settings show error = %v", err)
	}
	if want := "3\ntrue\nfalse\n"; out != want {
		t.Errorf("settings show = %q, want %q", out, want)
	}
}

func TestSettingsReset(t *testing.T) {
	testEnv(t)

	if _, _, err := execute(t, "settings", "set", "-p", "p", "optLevel=3"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "settings", "reset", "-p", "p"); err != nil {
		t.Fatalf("settings reset error = %v", err)
	}
	out, _, err := execute(t, "settings", "show", "-p", "p", "optLevel")
	if err != nil {
		t.Fatal(err)
	}
	if out != "2\n" {
		t.Errorf("optLevel after reset = %q, want 2", out)
	}
}

func TestSettingsKeys(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "settings", "keys")
	if err != nil {
		t.Fatalf("settings keys error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "KEY") {
		t.Errorf("missing header: %q", lines[0])
	}

	want := map[string][]string{
		"buildDir": {"path", "yes"},
		"dryRun":   {"bool", "false"},
		"optLevel": {"text", "2"},
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if exp, ok := want[fields[0]]; ok {
			for _, e := range exp {
				if !strings.Contains(line, e) {
					t.Errorf("line for %s = %q, want it to contain %q", fields[0], line, e)
				}
			}
			delete(want, fields[0])
		}
	}
	for k := range want {
		t.Errorf("settings keys missing %s", k)
	}
}
