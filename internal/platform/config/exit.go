package config

import (
	"fmt"
	"io"
	"os"
)

// stderr is swapped by tests that exercise ExitCode without a subprocess.
var stderr io.Writer = os.Stderr

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	os.Exit(ExitCode(stderr, format, args...))
}

// ExitCode writes the formatted message to w and returns the CLI failure code.
func ExitCode(w io.Writer, format string, args ...any) int {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
	return 1
}
