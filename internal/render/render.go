// Package render turns a settings snapshot into the shell text that
// configures, builds and installs LLVM. Everything here is a pure function
// of its input: no I/O, no validation of CMake's own grammar.
package render

import (
	"strconv"
	"strings"

	"github.com/xdg/llvmbuilder/internal/settings"
)

// Shebang is the interpreter line every full script starts with.
const Shebang = "#!/bin/bash"

// Options holds renderer parameters that are not part of the settings record.
type Options struct {
	// CMakePath is the cmake binary invoked by the configure command.
	CMakePath string
	// Jobs is the parallelism degree passed to the build tool and to
	// LLVM's parallel compile/link job limits.
	Jobs int
}

// DefaultOptions returns the reference options: the CMake.app binary and 24 jobs.
func DefaultOptions() Options {
	return Options{
		CMakePath: defaultCMake,
		Jobs:      defaultJobs,
	}
}

// Renderer renders commands with a fixed set of Options.
type Renderer struct {
	opts Options
}

// New creates a Renderer. Zero-valued options fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.CMakePath == "" {
		opts.CMakePath = def.CMakePath
	}
	if opts.Jobs <= 0 {
		opts.Jobs = def.Jobs
	}
	return &Renderer{opts: opts}
}

// Options returns the options the renderer was created with, after defaulting.
func (r *Renderer) Options() Options {
	return r.opts
}

var std = New(DefaultOptions())

// ConfigureCommand renders the cmake invocation using DefaultOptions.
func ConfigureCommand(s settings.Settings) string { return std.ConfigureCommand(s) }

// BuildExecutionCommand renders the build tool invocation using DefaultOptions.
func BuildExecutionCommand(s settings.Settings) string { return std.BuildExecutionCommand(s) }

// InstallCommand renders the install invocation using DefaultOptions.
func InstallCommand(s settings.Settings) string { return std.InstallCommand(s) }

// FullScript renders the complete build script using DefaultOptions.
func FullScript(s settings.Settings) string { return std.FullScript(s) }

// command accumulates a single-line shell command.
type command struct {
	b strings.Builder
}

func newCommand(program string) *command {
	c := &command{}
	c.b.WriteString(program)
	return c
}

// arg appends a raw argument.
func (c *command) arg(a string) {
	c.b.WriteByte(' ')
	c.b.WriteString(a)
}

// define appends -DNAME="value".
func (c *command) define(name, value string) {
	c.arg("-D" + name + "=" + quote(value))
}

func (c *command) defines(ds []Define) {
	for _, d := range ds {
		c.define(d.Name, d.Value)
	}
}

// toggle appends the ON/OFF definitions for t, plus its extras when on.
func (c *command) toggle(t Toggle, on bool) {
	value := onOff(on != t.Invert)
	for _, v := range t.Vars {
		c.define(v, value)
	}
	if on {
		c.defines(t.Extra)
	}
}

func (c *command) String() string {
	return c.b.String()
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// quote wraps s in double quotes. Values are interpolated literally; only
// the surrounding quotes are added so paths with spaces survive the shell.
func quote(s string) string {
	return `"` + s + `"`
}

// ConfigureCommand renders the cmake invocation for s. Every toggle in
// Toggles is emitted explicitly as ON or OFF. The projects and runtimes
// lists are used verbatim; resolve conflicts before calling.
func (r *Renderer) ConfigureCommand(s settings.Settings) string {
	c := newCommand(r.opts.CMakePath)

	// Toolchain
	if s.UseXcodeGCC {
		c.defines([]Define{
			{"LLVM_USE_LINKER", "/usr/bin/ld"},
			{"CMAKE_LIBTOOL", "/usr/bin/libtool"},
			{"CMAKE_CXX_COMPILER", "/usr/bin/g++"},
			{"CMAKE_C_COMPILER", "/usr/bin/gcc"},
			{"LLVM_LOCAL_RPATH", s.InstallPath + "/lib"},
			{"CMAKE_OBJDUMP", "/usr/bin/objdump"},
			{"CMAKE_NM", "/usr/bin/nm"},
			{"CMAKE_STRIP", "/usr/bin/strip"},
			{"CMAKE_AR", "/usr/bin/ar"},
			{"CMAKE_INSTALL_NAME_TOOL", "/usr/bin/install_name_tool"},
		})
	} else {
		bin := s.CompilerPath + "/bin/"
		c.defines([]Define{
			{"LLVM_USE_LINKER", bin + s.Linker},
			{"LD64_EXECUTABLE", bin + "lld"},
			{"CMAKE_LIBTOOL", bin + "llvm-libtool-darwin"},
			{"CMAKE_CXX_COMPILER", bin + s.CXXCompiler},
			{"CMAKE_C_COMPILER", bin + s.Compiler},
			{"LLVM_LOCAL_RPATH", s.InstallPath + "/lib"},
			{"LLVM_INSTALL_BINUTILS_SYMLINKS", "ON"},
			{"CMAKE_OBJDUMP", bin + "llvm-objdump"},
			{"CMAKE_OBJCOPY", bin + "llvm-objcopy"},
			{"CMAKE_NM", bin + "llvm-nm"},
			{"CMAKE_STRIP", bin + "llvm-strip"},
			{"CMAKE_AR", bin + "llvm-ar"},
			{"CMAKE_INSTALL_NAME_TOOL", bin + "llvm-install-name-tool"},
		})
	}

	// Optimisation flags, identical for C, C++ and assembler
	flags := releaseFlagBase + s.OptLevel
	c.define("CMAKE_C_FLAGS_RELEASE", flags)
	c.define("CMAKE_CXX_FLAGS_RELEASE", flags)
	c.define("CMAKE_ASM_FLAGS_RELEASE", flags)

	c.define("LLVM_TARGETS_TO_BUILD", s.Arch)
	c.define("CMAKE_OSX_ARCHITECTURES", s.OSXArch)

	c.defines(fixedDefines(strconv.Itoa(r.opts.Jobs)))

	c.toggle(toggleByKey("doNotWarn"), s.DoNotWarn)
	c.toggle(toggleByKey("doTesting"), s.DoTesting)
	c.toggle(toggleByKey("benchmark"), s.Benchmark)

	python := xcodePython
	if s.UseLocalPython {
		python = localPython
	}
	c.define("Python3_EXECUTABLE", python+"/bin/python3")
	c.define("PYTHON_LIBRARY", python+"/Python")
	c.define("PYTHON_INCLUDE_DIR", python+"/Headers")

	c.define("CMAKE_INSTALL_PREFIX", s.InstallPath)
	c.define("LLVM_ENABLE_RUNTIMES", s.Runtimes)
	c.define("LLVM_ENABLE_PROJECTS", s.Projects)

	c.toggle(toggleByKey("backtraces"), s.Backtraces)
	c.toggle(toggleByKey("modules"), s.Modules)
	c.toggle(toggleByKey("terminfo"), s.Terminfo)
	c.toggle(toggleByKey("ffi"), s.FFI)
	c.toggle(toggleByKey("xml2"), s.XML2)
	c.toggle(toggleByKey("zlib"), s.Zlib)

	c.define("LLVM_ENABLE_LTO", string(s.LTOMode()))

	c.toggle(toggleByKey("useDylib"), s.UseDylib)
	c.toggle(toggleByKey("xcodeToolchain"), s.XcodeToolchain)

	// Generator and source/build trees
	c.define("CMAKE_BUILD_TYPE", "Release")
	if s.UseMake {
		c.arg(`-G "Unix Makefiles"`)
	} else {
		c.arg("-GNinja")
	}
	c.arg("-S " + quote(s.LLVMDir+"/llvm"))
	c.arg("-B " + quote(s.BuildDir))

	return c.String()
}

// BuildExecutionCommand renders the build tool invocation.
func (r *Renderer) BuildExecutionCommand(s settings.Settings) string {
	jobs := strconv.Itoa(r.opts.Jobs)
	if s.UseMake {
		return "make -j" + jobs + " -l" + jobs
	}
	return "ninja -j" + jobs
}

// InstallCommand renders the install invocation, prefixed with sudo when
// SudoInstall is set.
func (r *Renderer) InstallCommand(s settings.Settings) string {
	jobs := strconv.Itoa(r.opts.Jobs)
	tool := "ninja"
	if s.UseMake {
		tool = "make"
	}
	cmd := tool + " install -j" + jobs + " -l" + jobs
	if s.SudoInstall {
		cmd = "sudo " + cmd
	}
	return cmd
}

// FullScript renders the build script. With DryRun set it is exactly the
// configure command. Otherwise the steps are: optional git pull in the
// source tree, cd into the build directory, optional wipe, configure, the
// timed build bracketed by markers in the timer file, optional install.
func (r *Renderer) FullScript(s settings.Settings) string {
	if s.DryRun {
		return r.ConfigureCommand(s)
	}

	var b strings.Builder
	b.WriteString(Shebang + "\n\n")

	if !s.SkipGitPull {
		b.WriteString("cd " + quote(s.LLVMDir) + "\n")
		b.WriteString("/usr/bin/time -h git pull\n\n")
	}

	b.WriteString("cd " + quote(s.BuildDir) + "\n\n")

	if s.CleanBuildDir {
		b.WriteString("rm -rf " + quote(s.BuildDir) + "/*\n\n")
	}

	b.WriteString(r.ConfigureCommand(s) + "\n\n")

	timer := quote(s.TimerFile)
	b.WriteString(`printf "STARTING COMPILE WITH CLANG IN DIR=` + s.CompilerPath + `\n" >> ` + timer + "\n")
	b.WriteString("/usr/bin/time -a -o " + timer + " " + r.BuildExecutionCommand(s) + "\n")
	b.WriteString(`printf "DONE\n" >> ` + timer + "\n\n")

	if s.DoInstall {
		b.WriteString(r.InstallCommand(s) + "\n")
	}

	return b.String()
}
