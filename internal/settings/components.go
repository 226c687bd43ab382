package settings

import (
	"slices"
	"strings"
)

// ProjectCatalog lists the LLVM_ENABLE_PROJECTS names the builder knows about.
var ProjectCatalog = []string{
	"bolt",
	"clang",
	"clang-tools-extra",
	"compiler-rt",
	"cross-project-tests",
	"libc",
	"libclc",
	"lld",
	"lldb",
	"mlir",
	"openmp",
	"polly",
	"pstl",
	"flang",
}

// RuntimeCatalog lists the LLVM_ENABLE_RUNTIMES names the builder knows about.
var RuntimeCatalog = []string{
	"libc",
	"libunwind",
	"libcxxabi",
	"pstl",
	"libcxx",
	"compiler-rt",
	"openmp",
	"llvm-libgcc",
	"offload",
}

// SplitList splits a semicolon separated component list, dropping empty
// entries and surrounding whitespace.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList joins component names with semicolons.
func JoinList(names []string) string {
	return strings.Join(names, ";")
}

// UnknownComponents returns the names in list that are not in catalog,
// in list order. Unknown names are still rendered; this is advisory only.
func UnknownComponents(list, catalog []string) []string {
	var unknown []string
	for _, name := range list {
		if !slices.Contains(catalog, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// FindDuplicates returns every project that also appears in runtimes,
// in projects order.
func FindDuplicates(projects, runtimes []string) []string {
	var dups []string
	for _, p := range projects {
		if slices.Contains(runtimes, p) {
			dups = append(dups, p)
		}
	}
	return dups
}

// Resolve removes every name that appears in runtimes from projects.
// Runtimes take precedence. The result is a new slice and runtimes is
// never modified.
func Resolve(projects, runtimes []string) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if !slices.Contains(runtimes, p) {
			out = append(out, p)
		}
	}
	return out
}

// ResolveConflicts applies Resolve to the record's component lists and
// returns the names removed from Projects. Projects is rewritten only when
// something was removed, so an untouched record keeps its exact formatting.
func (s *Settings) ResolveConflicts() []string {
	projects := s.ProjectList()
	runtimes := s.RuntimeList()

	dups := FindDuplicates(projects, runtimes)
	if len(dups) == 0 {
		return nil
	}

	s.Projects = JoinList(Resolve(projects, runtimes))
	return dups
}
