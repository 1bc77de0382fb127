package relisp

import (
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// Logger wraps the standard library logger the way the teacher's
// cmd/langlang/main.go already does ("log"), adding a verbosity gate
// driven by Config and a Dump helper for the go-spew powered
// diagnostics spec §7 requires when a fatal invariant violation (both
// value and exception, or neither) is detected.
type Logger struct {
	std     *log.Logger
	verbose bool
}

// NewLogger builds a Logger whose verbosity is read from cfg's
// "log.verbose" setting.
func NewLogger(cfg *Config) *Logger {
	return &Logger{
		std:     log.New(os.Stderr, "relisp: ", log.LstdFlags),
		verbose: cfg.GetBool("log.verbose"),
	}
}

// Debugf logs only when verbose logging is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l.verbose {
		l.std.Printf(format, args...)
	}
}

// Errorf always logs, regardless of verbosity.
func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf(format, args...)
}

// Dump renders v with go-spew and logs it at error level, unconditional
// of verbosity: used for the fatal-invariant diagnostic in spec §7
// ("log a diagnostic and coerce to 'exception raised, no value'").
func (l *Logger) Dump(label string, v any) {
	l.std.Printf("%s:\n%s", label, spew.Sdump(v))
}
