package render

// Toggle maps a boolean settings key to the CMake cache variables it
// switches. Every variable is emitted as "ON" or "OFF" in both states.
type Toggle struct {
	// Key is the settings serialization key.
	Key string
	// Vars are the CMake variables switched together.
	Vars []string
	// Invert emits ON when the toggle is false.
	Invert bool
	// Extra holds definitions emitted only when the toggle is on,
	// such as library locations.
	Extra []Define
}

// Define is a single -D<Name>="<Value>" definition.
type Define struct {
	Name  string
	Value string
}

const (
	sdkRoot         = "/Applications/Xcode.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk"
	betaSDKRoot     = "/Applications/Xcode-beta.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk"
	localPython     = "/Library/Frameworks/Python.framework/Versions/Current"
	xcodePython     = "/Applications/Xcode.app/Contents/Developer/Library/Frameworks/Python3.framework/Versions/Current"
	defaultCMake    = "/Applications/CMake.app/Contents/bin/cmake"
	defaultJobs     = 24
	cxxStandard     = "20"
	releaseFlagBase = "-fno-stack-protector -fno-common -O"
)

// Toggles lists every toggle that maps onto CMake variables, in the order
// they appear on the configure command line.
var Toggles = []Toggle{
	{Key: "doNotWarn", Vars: []string{"LLVM_ENABLE_WARNINGS"}, Invert: true},
	{Key: "doTesting", Vars: []string{
		"LLVM_BUILD_TESTS",
		"LLDB_INCLUDE_TESTS",
		"MLIR_INCLUDE_INTEGRATION_TEST",
		"MLIR_INCLUDE_TESTS",
		"CLANG_INCLUDE_TESTS",
		"FLANG_INCLUDE_TESTS",
		"LLVM_INCLUDE_TESTS",
		"LLVM_TOOL_CROSS_PROJECT_TESTS_BUILD",
		"LLVM_INDIVIDUAL_TEST_COVERAGE",
	}},
	{Key: "benchmark", Vars: []string{"LLVM_INCLUDE_BENCHMARKS", "LLVM_BUILD_BENCHMARKS"}},
	{Key: "backtraces", Vars: []string{"LLVM_ENABLE_BACKTRACES"}},
	{Key: "modules", Vars: []string{"LLVM_ENABLE_MODULES"}},
	{Key: "terminfo", Vars: []string{"LLVM_ENABLE_TERMINFO"}, Extra: []Define{
		{"Terminfo_LIBRARIES", betaSDKRoot + "/usr/lib/libcurses.tbd"},
	}},
	{Key: "ffi", Vars: []string{"LLVM_ENABLE_FFI"}, Extra: []Define{
		{"FFI_INCLUDE_DIR", sdkRoot + "/usr/include/ffi"},
		{"FFI_LIBRARY_DIR", sdkRoot + "/usr/lib/libffi.tbd"},
	}},
	{Key: "xml2", Vars: []string{"LLVM_ENABLE_LIBXML2", "LLDB_ENABLE_LIBXML2"}, Extra: []Define{
		{"LIBXML2_INCLUDE_DIR", sdkRoot + "/usr/include/libxml"},
		{"LIBXML2_LIBRARY", sdkRoot + "/usr/lib/libxml2.2.tbd"},
	}},
	{Key: "zlib", Vars: []string{"LLVM_ENABLE_ZLIB"}, Extra: []Define{
		{"ZLIB_INCLUDE_DIR", sdkRoot + "/usr/include"},
		{"ZLIB_LIBRARY_RELEASE", sdkRoot + "/usr/lib/libz.1.tbd"},
	}},
	{Key: "useDylib", Vars: []string{"LLVM_BUILD_LLVM_DYLIB", "LLVM_LINK_LLVM_DYLIB"}},
	{Key: "xcodeToolchain", Vars: []string{"LLVM_CREATE_XCODE_TOOLCHAIN"}},
}

// ScriptToggles names the toggles that shape the script or pick between
// alternative values rather than switching a CMake variable.
var ScriptToggles = map[string]string{
	"dryRun":         "render only the configure command",
	"cleanBuildDir":  "wipe the build directory before configuring",
	"skipGitPull":    "skip updating the source tree",
	"doInstall":      "run the install step",
	"sudoInstall":    "run the install step with sudo",
	"useMake":        "generate Unix Makefiles instead of Ninja",
	"noLto":          "LLVM_ENABLE_LTO=Off",
	"fullLto":        "LLVM_ENABLE_LTO=Full",
	"useLocalPython": "use the framework Python instead of Xcode's",
	"useXcodeGcc":    "use the system toolchain instead of the compiler path",
	"botMode":        "unattended run: no confirmation, fixed install/LTO/test settings",
}

func toggleByKey(key string) Toggle {
	for _, t := range Toggles {
		if t.Key == key {
			return t
		}
	}
	panic("render: unknown toggle " + key)
}

// fixedDefines are emitted on every configure command for macOS builds.
// The parallel job counts are filled in from Options.
func fixedDefines(jobs string) []Define {
	return []Define{
		{"LLVM_INSTALL_CCTOOLS_SYMLINKS", "ON"},
		{"LLVM_INSTALL_UTILS", "ON"},
		{"LIBCLANG_BUILD_STATIC", "ON"},
		{"CMAKE_MACOSX_RPATH", "ON"},
		{"CLANG_DEFAULT_RTLIB", "compiler-rt"},
		{"CMAKE_CXX_STANDARD", cxxStandard},
		{"LLVM_PARALLEL_LINK_JOBS", jobs},
		{"LLVM_PARALLEL_COMPILE_JOBS", jobs},
		{"DEFAULT_SYSROOT", sdkRoot},
		{"CLANG_SPAWN_CC1", "ON"},
		{"COMPILER_RT_BUILD_BUILTINS", "OFF"},
		{"COMPILER_RT_USE_BUILTINS_LIBRARY", "OFF"},
		{"LLDB_USE_SYSTEM_DEBUGSERVER", "ON"},
		{"LLDB_EMBED_PYTHON_HOME", "OFF"},
		{"LLDB_ENABLE_LZMA", "OFF"},
		{"LLVM_ENABLE_ZSTD", "OFF"},
		{"LLDB_ENABLE_CURSES", "OFF"},
		{"LLVM_ENABLE_LIBEDIT", "OFF"},
		{"LLVM_ENABLE_Z3_SOLVER", "OFF"},
	}
}
