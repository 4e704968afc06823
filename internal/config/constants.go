// Package config holds the compilation session's ambient configuration:
// the only legitimate global state.
// Everything here is either a build-time constant or a small set of mode
// flags consulted for deterministic test/trace output; no singleton
// session object replaces the explicit Limits/Session records passed
// through the library entry points.
package config

// Version is the current Ruchy toolchain version. Set at build time via
// -ldflags "-X github.com/ruchy-lang/ruchy/internal/config.Version=...".
var Version = "0.1.0"

const SourceFileExt = ".ruchy"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".ruchy", ".rchy"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode normalizes otherwise-nondeterministic output (fresh type
// variable names, timestamps) for golden tests. Set once at process
// startup.
var IsTestMode = false

// Default resource budget. A host
// may override any field; these are the values `cmd/ruchy` uses when the
// user passes no explicit limits.
const (
	DefaultMaxInstructions = 10_000_000
	DefaultMaxStackDepth   = 256
	DefaultMaxArenaBytes   = 64 << 20 // 64 MiB
)

// Inliner statement budget.
const DefaultInlineStatementBudget = 16

// Optimizer round cap: fold -> propagate -> DCE -> inline ->
// fold -> propagate -> DCE is two rounds; more run only while passes
// report changes, up to this hard cap.
const MaxOptimizerRounds = 8

// Builtin and runtime-type names shared across the interpreter, VM, and
// type system so the three don't drift on spelling.
const (
	ListTypeName   = "List"
	OptionTypeName = "Option"
	ResultTypeName = "Result"
	SomeCtorName   = "Some"
	NoneCtorName   = "None"
	OkCtorName     = "Ok"
	ErrCtorName    = "Err"
)
