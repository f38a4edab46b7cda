// Package actions writes GitHub Actions outputs and workflow commands.
package actions

import (
	"fmt"
	"io"
	"os"
)

// out is swappable in tests.
var out io.Writer = os.Stdout

// SetOutput writes a step output, appending to the GITHUB_OUTPUT file when
// available and falling back to the legacy set-output workflow command on
// runners where the file cannot be written.
func SetOutput(name, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		fmt.Fprintf(out, "::set-output name=%s::%s\n", name, value)
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(out, "::set-output name=%s::%s\n", name, value)
		return nil
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// Notice emits a notice annotation in the workflow log.
func Notice(format string, args ...interface{}) {
	fmt.Fprintf(out, "::notice::"+format+"\n", args...)
}

// Error emits an error annotation in the workflow log.
func Error(format string, args ...interface{}) {
	fmt.Fprintf(out, "::error::"+format+"\n", args...)
}

// Group opens a collapsible log group.
func Group(title string) {
	fmt.Fprintf(out, "::group::%s\n", title)
}

// EndGroup closes the current log group.
func EndGroup() {
	fmt.Fprintln(out, "::endgroup::")
}

// Log writes a plain line inside the workflow log.
func Log(format string, args ...interface{}) {
	fmt.Fprintf(out, format+"\n", args...)
}
