package cli

import (
	"fmt"
	"os"
)

// stderrLogger writes tagged lines to stderr so they never interleave with
// command output on stdout.
type stderrLogger struct {
	verbose bool
}

func (l stderrLogger) Debug(message string) {
	if l.verbose {
		fmt.Fprintf(os.Stderr, "debug: %s\n", message)
	}
}

func (l stderrLogger) Info(message string) {
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

func (l stderrLogger) Error(message string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", message)
}
