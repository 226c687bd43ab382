package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults_SetGetUnset(t *testing.T) {
	testEnv(t)

	if _, _, err := execute(t, "defaults", "set", "linker", "ld.lld"); err != nil {
		t.Fatalf("defaults set error = %v", err)
	}
	out, _, err := execute(t, "defaults", "get", "linker")
	if err != nil {
		t.Fatalf("defaults get error = %v", err)
	}
	if out != "ld.lld\n" {
		t.Errorf("defaults get = %q", out)
	}

	// Field defaults feed the resolved settings, and --set still wins.
	out, _, _ = execute(t, "settings", "show", "linker")
	if out != "ld.lld\n" {
		t.Errorf("linker = %q, want the remembered default", out)
	}
	out, _, _ = execute(t, "settings", "show", "linker", "--set", "linker=gold")
	if out != "gold\n" {
		t.Errorf("linker with --set = %q, want gold", out)
	}

	if _, _, err := execute(t, "defaults", "unset", "linker"); err != nil {
		t.Fatalf("defaults unset error = %v", err)
	}
	if _, _, err := execute(t, "defaults", "get", "linker"); err == nil {
		t.Error("defaults get after unset should fail")
	}
}

func TestDefaults_PresetOverridesDefaults(t *testing.T) {
	testEnv(t)

	if _, _, err := execute(t, "settings", "set", "-p", "p", "compiler=gcc"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "defaults", "set", "compiler", "clang-19"); err != nil {
		t.Fatal(err)
	}
	out, _, _ := execute(t, "settings", "show", "-p", "p", "compiler")
	if out != "gcc\n" {
		t.Errorf("compiler = %q, want the preset value", out)
	}
}

func TestDefaults_ExpandsPaths(t *testing.T) {
	testEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, _, err := execute(t, "defaults", "set", "buildDir", "~/build"); err != nil {
		t.Fatal(err)
	}
	out, _, _ := execute(t, "defaults", "get", "buildDir")
	if want := filepath.Join(home, "build") + "\n"; out != want {
		t.Errorf("buildDir = %q, want %q", out, want)
	}
}

func TestDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown key", []string{"defaults", "set", "nope", "x"}, "unknown option"},
		{"not defaultable", []string{"defaults", "set", "optLevel", "3"}, "cannot have a remembered default"},
		{"get not defaultable", []string{"defaults", "get", "dryRun"}, "cannot have a remembered default"},
		{"unset not defaultable", []string{"defaults", "unset", "arch"}, "cannot have a remembered default"},
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

func TestDefaults_List(t *testing.T) {
	testEnv(t)
	if _, _, err := execute(t, "defaults", "set", "runtimes", "libcxx"); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "defaults", "list")
	if err != nil {
		t.Fatalf("defaults list error = %v", err)
	}
	var sawRuntimes, sawCompiler bool
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) != 2 {
			continue
		}
		switch f[0] {
		case "runtimes":
			sawRuntimes = f[1] == "libcxx"
		case "compiler":
			sawCompiler = f[1] == "-"
		}
	}
	if !sawRuntimes || !sawCompiler {
		t.Errorf("defaults list output:\n%s", out)
	}
}
