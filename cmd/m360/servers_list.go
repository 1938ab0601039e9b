package main

import (
	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/api"
	"github.com/monit360/m360/internal/monitor"
)

var (
	listTags       []string
	listIssuesOnly bool
	listNoIDs      bool
)

func init() {
	serversListCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Only list servers carrying this tag (repeatable, all must match)")
	serversListCmd.Flags().BoolVar(&listIssuesOnly, "issues", false, "Only list servers with a usage metric outside its threshold")
	serversListCmd.Flags().BoolVar(&listNoIDs, "no-ids", false, "Hide the ID column in table output")
	serversCmd.AddCommand(serversListCmd)
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all monitored servers",
	Long: `List all monitored servers with usage metrics.

Examples:
  m360 servers list
  m360 servers list --output csv
  m360 servers list --issues
  m360 servers list --tag production --tag eu-west`,
	RunE: runServersList,
}

func runServersList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if listNoIDs {
		cfg.HideIDs = true
	}

	client := newClient(cfg)
	servers, err := client.Servers(cmd.Context())
	if err != nil {
		exitWithError(apiExitCode(err), "fetching servers: %v", err)
	}

	matched := make([]api.Server, 0, len(servers))
	for _, srv := range servers {
		if monitor.Match(srv, listTags, listIssuesOnly, cfg.Thresholds()) {
			matched = append(matched, srv)
		}
	}

	if err := renderServers(newFormatter(cmd, cfg), matched); err != nil {
		exitWithError(ExitError, "rendering servers: %v", err)
	}

	recordHistory(servers)
	return nil
}
