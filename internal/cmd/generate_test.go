package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xdg/llvmbuilder/internal/render"
)

func TestGenerate_UsesConfig(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")

	out, _, err := execute(t, "generate", "--set", "fullLto=true", "--set", "buildDir=/b")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.HasPrefix(out, "echo ") {
		t.Errorf("configure command should start with the configured cmake path: %q", out)
	}
	for _, want := range []string{`-DLLVM_ENABLE_LTO="Full"`, `-B "/b"`, `-DLLVM_PARALLEL_COMPILE_JOBS="2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("configure command missing %s\nGot: %s", want, out)
		}
	}
}

func TestGenerate_AppliesConflictResolution(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "gen", "--set", "projects=clang;openmp", "--set", "runtimes=openmp")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `-DLLVM_ENABLE_PROJECTS="clang"`) || !strings.Contains(out, `-DLLVM_ENABLE_RUNTIMES="openmp"`) {
		t.Errorf("conflict not resolved in: %s", out)
	}
}

func TestScript_Stdout(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "script", "--set", "skipGitPull=true")
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	if !strings.HasPrefix(out, render.Shebang) {
		t.Errorf("script should start with %q: %q", render.Shebang, out)
	}
	if strings.Contains(out, "git pull") {
		t.Error("skipGitPull should drop the git pull step")
	}
}

func TestScript_BotModeForcesUnattendedSettings(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "script",
		"--set", "botMode=true",
		"--set", "fullLto=true",
		"--set", "doTesting=true",
		"--set", "doInstall=false",
		"--set", "sudoInstall=true")
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	for _, want := range []string{
		`-DLLVM_ENABLE_LTO="Off"`,
		`-DLLVM_BUILD_TESTS="OFF"`,
		`-DLLVM_ENABLE_WARNINGS="OFF"`,
		`-DLLVM_ENABLE_ZLIB="OFF"`,
		"\nninja install ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("script missing %s\nGot: %s", want, out)
		}
	}
	if strings.Contains(out, "sudo ") {
		t.Error("bot mode should install without sudo")
	}
}

func TestScript_OutputFile(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "build.sh")

	out, _, err := execute(t, "script", "-o", path, "--set", "dryRun=true")
	if err != nil {
		t.Fatalf("script -o error = %v", err)
	}
	if !strings.Contains(out, "Wrote build script") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "-DCMAKE_BUILD_TYPE=") {
		t.Errorf("dry-run script should be the configure command: %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("script mode = %v, want executable", info.Mode())
	}
}

func TestCatalog_MarksSelection(t *testing.T) {
	testEnv(t)

	out, _, err := execute(t, "catalog", "--set", "projects=clang;lld", "--set", "runtimes=libunwind")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}
	for _, want := range []string{"* clang\n", "* lld\n", "  mlir\n", "* libunwind\n", "  offload\n", "Runtimes (LLVM_ENABLE_RUNTIMES)"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q\nGot: %s", want, out)
		}
	}
}
