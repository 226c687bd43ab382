// Package settings defines the flat record of every option that drives an
// LLVM configure/build/install run, together with the component catalog and
// the projects/runtimes conflict resolution rule.
package settings

import (
	"os"
	"path/filepath"
)

// Settings holds every configurable option. The yaml key of each field is
// its serialization name, shared by presets, the field defaults store and
// the CLI --set flag.
type Settings struct {
	// Paths
	CompilerPath string `yaml:"compilerPath"`
	LLVMDir      string `yaml:"llvmDir"`
	BuildDir     string `yaml:"buildDir"`
	InstallPath  string `yaml:"installPath"`
	TimerFile    string `yaml:"timerFile"`

	// Component selection, semicolon separated
	Projects string `yaml:"projects"`
	Runtimes string `yaml:"runtimes"`

	// Toolchain
	CleanBuildDir bool   `yaml:"cleanBuildDir"`
	Compiler      string `yaml:"compiler"`
	CXXCompiler   string `yaml:"cxxCompiler"`
	Linker        string `yaml:"linker"`
	OptLevel      string `yaml:"optLevel"`
	Arch          string `yaml:"arch"`
	OSXArch       string `yaml:"osxArch"`

	// Build options
	DryRun         bool `yaml:"dryRun"`
	FFI            bool `yaml:"ffi"`
	Zlib           bool `yaml:"zlib"`
	Terminfo       bool `yaml:"terminfo"`
	XML2           bool `yaml:"xml2"`
	NoLTO          bool `yaml:"noLto"`
	FullLTO        bool `yaml:"fullLto"`
	UseMake        bool `yaml:"useMake"`
	SkipGitPull    bool `yaml:"skipGitPull"`
	DoInstall      bool `yaml:"doInstall"`
	SudoInstall    bool `yaml:"sudoInstall"`
	UseLocalPython bool `yaml:"useLocalPython"`
	UseDylib       bool `yaml:"useDylib"`
	XcodeToolchain bool `yaml:"xcodeToolchain"`
	UseXcodeGCC    bool `yaml:"useXcodeGcc"`
	Modules        bool `yaml:"modules"`
	Backtraces     bool `yaml:"backtraces"`
	DoNotWarn      bool `yaml:"doNotWarn"`
	DoTesting      bool `yaml:"doTesting"`
	Benchmark      bool `yaml:"benchmark"`
	BotMode        bool `yaml:"botMode"`
}

// DefaultProjects is the projects list a fresh record starts with.
const DefaultProjects = "bolt;clang;clang-tools-extra;compiler-rt;cross-project-tests;libc;libclc;lld;lldb;mlir;openmp;polly;pstl;flang"

// Default returns a Settings populated with the built-in defaults.
func Default() *Settings {
	s := &Settings{}
	s.Reset()
	return s
}

// Reset restores every field to its built-in default.
// BuildDir defaults to the system temp directory and TimerFile to time.txt
// in the current working directory.
func (s *Settings) Reset() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	*s = Settings{
		CompilerPath: "/usr/local",
		LLVMDir:      "/opt/llvm/llvm-project",
		BuildDir:     os.TempDir(),
		InstallPath:  "/usr/local",
		TimerFile:    filepath.Join(cwd, "time.txt"),

		Projects: DefaultProjects,
		Runtimes: "",

		CleanBuildDir: true,
		Compiler:      "clang",
		CXXCompiler:   "clang++",
		Linker:        "ld64.lld",
		OptLevel:      "2",
		Arch:          "AArch64",
		OSXArch:       "arm64",
	}
}

// Snapshot returns a copy of the record. Renderers and the runner work on
// snapshots so later edits to s never leak into a command being produced.
func (s *Settings) Snapshot() Settings {
	return *s
}

// SetNoLTO sets the "LTO disabled" toggle. Enabling it clears FullLTO.
func (s *Settings) SetNoLTO(disabled bool) {
	s.NoLTO = disabled
	if disabled {
		s.FullLTO = false
	}
}

// SetFullLTO sets the "full LTO" toggle. Enabling it clears NoLTO.
func (s *Settings) SetFullLTO(enabled bool) {
	s.FullLTO = enabled
	if enabled {
		s.NoLTO = false
	}
}

// ApplyBotMode forces the unattended bundle when BotMode is on: install
// without sudo, no LTO, warnings off, and tests, benchmarks and optional
// host libraries disabled. It reports whether anything was forced.
func (s *Settings) ApplyBotMode() bool {
	if !s.BotMode {
		return false
	}
	s.SudoInstall = false
	s.DoNotWarn = true
	s.SetNoLTO(true)
	s.DoTesting = false
	s.Benchmark = false
	s.Terminfo = false
	s.DoInstall = true
	s.Zlib = false
	s.XML2 = false
	s.Modules = false
	s.FFI = false
	return true
}

// LTOMode is the three-way LTO choice derived from the two LTO toggles.
type LTOMode string

// LTO modes, spelled the way CMake's LLVM_ENABLE_LTO expects them.
const (
	LTOOff  LTOMode = "Off"
	LTOFull LTOMode = "Full"
	LTOThin LTOMode = "Thin"
)

// LTOMode maps the LTO toggles to a mode. NoLTO wins when both are set;
// Thin is used when neither is.
func (s *Settings) LTOMode() LTOMode {
	switch {
	case s.NoLTO:
		return LTOOff
	case s.FullLTO:
		return LTOFull
	default:
		return LTOThin
	}
}

// ProjectList returns the projects field split into names.
func (s *Settings) ProjectList() []string {
	return SplitList(s.Projects)
}

// RuntimeList returns the runtimes field split into names.
func (s *Settings) RuntimeList() []string {
	return SplitList(s.Runtimes)
}
