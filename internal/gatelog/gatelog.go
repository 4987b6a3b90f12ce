// Package gatelog is the thin structured-logging wrapper every component
// logs through. It never replaces the CLI's own terminal output
// (internal/output); it exists for operational events: catalog load,
// validate/approve calls, challenge session lifecycle transitions, and exec
// outcomes.
package gatelog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var std = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// New returns a logger scoped with prefix, inheriting the package default's
// output and level. Components that want a dedicated logger (rather than
// the shared default) call this once at construction, mirroring the
// teacher's log.Default().WithPrefix(...) pattern.
func New(prefix string) *log.Logger {
	return std.WithPrefix(prefix)
}

// Default returns the shared package-level logger. Components take a
// *log.Logger field that defaults to this when the caller passes nil.
func Default() *log.Logger {
	return std
}

// SetLevel adjusts the shared default logger's level. Used by the CLI's
// --verbose flag.
func SetLevel(level log.Level) {
	std.SetLevel(level)
}

// SetOutput redirects the shared default logger. Used by tests that want to
// silence logging (io.Discard) without threading a logger through every
// constructor.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Discard returns a logger that writes nowhere, for tests that need to pass
// a *log.Logger but don't want output.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
