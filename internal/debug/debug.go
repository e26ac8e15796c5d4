// Package debug provides env-gated diagnostic output.
//
// Diagnostics are written to stderr only when BUGDASH_DEBUG is set or
// verbose mode was enabled via flag, so normal runs stay quiet.
package debug

import (
	"fmt"
	"io"
	"os"
)

var (
	enabled     = os.Getenv("BUGDASH_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	// normalOut receives PrintNormal output; swapped in tests
	normalOut io.Writer = os.Stdout
)

// Enabled reports whether diagnostic output is active.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// Logf writes a diagnostic line to stderr when debugging is enabled.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints informational output unless quiet mode is enabled.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(normalOut, format, args...)
	}
}
