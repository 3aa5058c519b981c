// Package report prints user-facing messages for command failures
package report

import (
	"github.com/pterm/pterm"
)

// Error prints err with the error prefix.
func Error(err error) {
	pterm.Error.Println(err)
}

// Warn prints a non-fatal problem.
func Warn(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}
