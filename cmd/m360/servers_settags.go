package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/api"
	"github.com/monit360/m360/internal/monitor"
)

func init() {
	serversCmd.AddCommand(serversSetTagsCmd)
}

var serversSetTagsCmd = &cobra.Command{
	Use:   "set-tags <pattern> <tag>...",
	Short: "Replace the tags of one server",
	Long: `Replace the tags of the first server matching the pattern.

The pattern matches a server ID exactly or a server name by substring;
servers are scanned in listing order and the first match wins.

Examples:
  m360 servers set-tags web-01 production
  m360 servers set-tags 625a3eed5d53f23e08a523dc production eu-west`,
	Args: cobra.MinimumNArgs(2),
	RunE: runServersSetTags,
}

// errReadonlyMode is returned when a mutation is blocked by readonly config.
var errReadonlyMode = errors.New("readonly mode is enabled")

// setServerTags resolves the pattern against the server list in listing
// order and updates the first match. It returns the matched server ID and
// whether any server matched. Readonly mode fails before any network I/O.
func setServerTags(ctx context.Context, client *api.Client, servers []api.Server, pattern string, tags []string, readonly bool) (string, bool, error) {
	for _, srv := range servers {
		if !monitor.MatchesPattern(srv, pattern) {
			continue
		}

		if readonly {
			return srv.ID, true, errReadonlyMode
		}

		if err := client.UpdateServerTags(ctx, srv.ID, tags); err != nil {
			return srv.ID, true, err
		}
		return srv.ID, true, nil
	}

	return "", false, nil
}

func runServersSetTags(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	pattern := args[0]
	tags := args[1:]

	client := newClient(cfg)
	servers, err := client.Servers(cmd.Context())
	if err != nil {
		exitWithError(apiExitCode(err), "fetching servers: %v", err)
	}

	id, found, err := setServerTags(cmd.Context(), client, servers, pattern, tags, cfg.Readonly)
	if errors.Is(err, errReadonlyMode) {
		exitWithError(ExitError, "readonly mode is enabled, not updating server %s", id)
	}
	if err != nil {
		exitWithError(apiExitCode(err), "updating server %s: %v", id, err)
	}

	// No matching server is a warning, not a failure.
	if !found {
		printWarn("no server with given pattern found: %s", pattern)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated tags of server %s to %v\n", id, tags)
	return nil
}
