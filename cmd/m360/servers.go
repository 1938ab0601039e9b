package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/api"
	"github.com/monit360/m360/internal/config"
	"github.com/monit360/m360/internal/history"
	"github.com/monit360/m360/internal/monitor"
)

// outputFormat is the shared --output flag for server commands.
var outputFormat string

func init() {
	serversCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, csv, json)")
	rootCmd.AddCommand(serversCmd)
}

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List and manage monitored servers",
	Long: `List and manage the servers monitored by your account.

Examples:
  m360 servers list
  m360 servers list --issues --tag production
  m360 servers get web-01
  m360 servers set-tags web-01 production eu-west`,
}

// loadConfig loads .env, the config file, and validates credentials.
// Exits with ExitConfigError when no API key is available.
func loadConfig() *config.Config {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if cfg.APIKey == "" {
		exitWithError(ExitConfigError,
			"no API key configured (set api_key in %s or the M360_API_KEY environment variable)",
			config.Path())
	}
	return cfg
}

// newClient builds the API client from config.
func newClient(cfg *config.Config) *api.Client {
	opts := []api.ClientOption{
		api.WithToken(cfg.APIKey),
		api.WithPerPage(cfg.MaxItems),
		api.WithHTTPClient(&http.Client{Timeout: api.DefaultTimeout}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, api.WithBaseURL(cfg.Endpoint))
	}
	return api.NewClient(opts...)
}

// newFormatter builds a listing formatter honoring format, hide_ids and
// color settings.
func newFormatter(cmd *cobra.Command, cfg *config.Config) *monitor.Formatter {
	format, err := monitor.ParseFormat(outputFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return monitor.NewFormatter(cmd.OutOrStdout(), format, cfg.Thresholds(),
		monitor.WithHideIDs(cfg.HideIDs),
		monitor.WithColor(format == monitor.FormatTable && colorEnabled()),
	)
}

// renderServers runs one full listing pass over the given servers.
func renderServers(f *monitor.Formatter, servers []api.Server) error {
	f.Header()
	for _, srv := range servers {
		if err := f.Row(srv); err != nil {
			return err
		}
	}
	return f.Footer()
}

// apiExitCode maps an API client error to the matching exit code.
func apiExitCode(err error) int {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrNoToken), api.IsAuthError(err):
		return ExitConfigError
	case errors.As(err, &apiErr), api.IsRateLimited(err):
		return ExitAPIError
	default:
		return ExitError
	}
}

// recordHistory appends the fetched snapshot to the local history database.
// History failures degrade to a warning; the listing itself already
// succeeded.
func recordHistory(servers []api.Server) {
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		printWarn("opening history database: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(time.Now(), servers); err != nil {
		printWarn("recording history: %v", err)
	}
}
