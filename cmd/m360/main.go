// Package main provides the m360 CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// noColor disables ANSI highlighting even on a terminal
var noColor bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "m360",
	Short: "CLI client for the 360 server-monitoring API",
	Long: `m360 is a command-line client for the 360 server-monitoring API.

It lists monitored servers with their CPU, memory and disk usage, flags
servers that exceed the configured thresholds, and updates server tags.
Output is available as a table, CSV, or JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Version = Version
}
