package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/config"
	"github.com/monit360/m360/internal/history"
	"github.com/monit360/m360/internal/monitor"
)

var historyLimit int

func init() {
	serversHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum snapshots to show (0 = all)")
	serversCmd.AddCommand(serversHistoryCmd)
}

var serversHistoryCmd = &cobra.Command{
	Use:   "history <pattern>",
	Short: "Show recorded usage snapshots for one server",
	Long: `Show usage snapshots recorded by earlier "servers list" runs.

The pattern matches a server ID exactly or a server name by substring;
the first match in listing order is used. History is read from the local
snapshot database, no API call is made.

Examples:
  m360 servers history web-01
  m360 servers history web-01 --limit 5 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runServersHistory,
}

func runServersHistory(cmd *cobra.Command, args []string) error {
	pattern := args[0]

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		exitWithError(ExitError, "opening history database: %v", err)
	}
	defer store.Close()

	snaps, err := store.ByServer(pattern, historyLimit)
	if err != nil {
		exitWithError(ExitError, "reading history: %v", err)
	}
	if len(snaps) == 0 {
		// The pattern may be a name substring rather than an exact ID.
		snaps, err = store.ByName(pattern, historyLimit)
		if err != nil {
			exitWithError(ExitError, "reading history: %v", err)
		}
	}
	if len(snaps) == 0 {
		printWarn("no recorded snapshots for pattern: %s", pattern)
		return nil
	}

	format, err := monitor.ParseFormat(outputFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if format == monitor.FormatJSON {
		return outputJSON(snaps)
	}

	table := monitor.NewTable(
		[]string{"Recorded at", "Server name", "CPU Usage %", "Mem Usage %", "Disk Usage %"},
		[]bool{false, false, true, true, true},
		false,
	)
	for _, snap := range snaps {
		table.AddRow([]monitor.Cell{
			{Text: snap.RecordedAt.Format("2006-01-02 15:04:05")},
			{Text: snap.Name},
			{Text: fmt.Sprintf("%.1f%%", snap.CPUUsage)},
			{Text: fmt.Sprintf("%.1f%%", snap.MemUsage)},
			{Text: fmt.Sprintf("%.1f%%", snap.DiskUsage)},
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), table.Render(0))
	return nil
}
