// Package cli implements the corridor command-line interface.
//
// This package provides commands for evaluating the equivalent connected
// area of a landscape, precomputing per-target reductions, generating random
// instances and rendering landscapes as diagrams. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - eval: Compute the ECA under an activation of the restoration plan
//   - contract: Reduce the landscape for every target and print a summary
//   - generate: Write a random instance
//   - validate: Check an instance file and report every problem
//   - dot: Render the landscape, or one reduction, as DOT/SVG/PNG/PDF
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/corridor/config.toml; see [Config].
// Flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps like
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command stage.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, e.g.
// "Evaluated landscape nodes=40 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
