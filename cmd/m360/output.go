package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/term"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError writes an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// printWarn writes a warning message to stderr.
func printWarn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// exitWithError reports an error and exits with the given code.
func exitWithError(code int, format string, args ...interface{}) {
	printError(format, args...)
	os.Exit(code)
}

// colorEnabled reports whether table cells may carry ANSI highlighting:
// only when stdout is a terminal and --no-color was not given.
func colorEnabled() bool {
	if noColor {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
