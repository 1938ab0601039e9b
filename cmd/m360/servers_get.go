package main

import (
	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/api"
	"github.com/monit360/m360/internal/monitor"
)

func init() {
	serversCmd.AddCommand(serversGetCmd)
}

var serversGetCmd = &cobra.Command{
	Use:   "get <pattern>",
	Short: "Show servers matching an ID or name pattern",
	Long: `Show the servers selected by a pattern.

The pattern matches a server ID exactly or a server name by substring.

Examples:
  m360 servers get web-01
  m360 servers get 625a3eed5d53f23e08a523dc --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runServersGet,
}

func runServersGet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	pattern := args[0]

	client := newClient(cfg)
	servers, err := client.Servers(cmd.Context())
	if err != nil {
		exitWithError(apiExitCode(err), "fetching servers: %v", err)
	}

	matched := make([]api.Server, 0, 1)
	for _, srv := range servers {
		if monitor.MatchesPattern(srv, pattern) {
			matched = append(matched, srv)
		}
	}

	if len(matched) == 0 {
		printWarn("no server with given pattern found: %s", pattern)
		return nil
	}

	if err := renderServers(newFormatter(cmd, cfg), matched); err != nil {
		exitWithError(ExitError, "rendering servers: %v", err)
	}

	return nil
}
