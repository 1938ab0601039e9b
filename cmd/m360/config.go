package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/monit360/m360/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  m360 config                       # Show all config
  m360 config api-key               # Get specific value
  m360 config api-key TOKEN         # Set value
  m360 config threshold-cpu 90      # Set CPU usage threshold

Keys:
  endpoint        API base URL
  api-key         API token
  max-items       Page size for server listings
  readonly        Block all mutating API calls (true/false)
  hide-ids        Hide the ID column in table output (true/false)
  threshold-cpu   CPU usage alert threshold (percent)
  threshold-mem   Memory usage alert threshold (percent)
  threshold-disk  Disk usage alert threshold (percent)
  threshold-free-disk  Free disk space alert threshold (percent)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "endpoint:            %s\n", cfg.Endpoint)
		fmt.Fprintf(out, "api-key:             %s\n", maskKey(cfg.APIKey))
		fmt.Fprintf(out, "max-items:           %d\n", cfg.MaxItems)
		fmt.Fprintf(out, "readonly:            %t\n", cfg.Readonly)
		fmt.Fprintf(out, "hide-ids:            %t\n", cfg.HideIDs)
		fmt.Fprintf(out, "threshold-cpu:       %g\n", cfg.ThresholdCPUUsage)
		fmt.Fprintf(out, "threshold-mem:       %g\n", cfg.ThresholdMemUsage)
		fmt.Fprintf(out, "threshold-disk:      %g\n", cfg.ThresholdDiskUsage)
		fmt.Fprintf(out, "threshold-free-disk: %g\n", cfg.ThresholdFreeDiskspace)
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, ok := getConfigValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	// Two args: set value
	if err := setConfigValue(cfg, key, args[1]); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if err := cfg.Save(config.Path()); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s to %s\n", key, args[1])
	return nil
}

func getConfigValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "endpoint":
		return cfg.Endpoint, true
	case "api-key":
		return cfg.APIKey, true
	case "max-items":
		return strconv.Itoa(cfg.MaxItems), true
	case "readonly":
		return strconv.FormatBool(cfg.Readonly), true
	case "hide-ids":
		return strconv.FormatBool(cfg.HideIDs), true
	case "threshold-cpu":
		return strconv.FormatFloat(cfg.ThresholdCPUUsage, 'g', -1, 64), true
	case "threshold-mem":
		return strconv.FormatFloat(cfg.ThresholdMemUsage, 'g', -1, 64), true
	case "threshold-disk":
		return strconv.FormatFloat(cfg.ThresholdDiskUsage, 'g', -1, 64), true
	case "threshold-free-disk":
		return strconv.FormatFloat(cfg.ThresholdFreeDiskspace, 'g', -1, 64), true
	default:
		return "", false
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "endpoint":
		cfg.Endpoint = value
	case "api-key":
		cfg.APIKey = value
	case "max-items":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("max-items must be a positive integer: %s", value)
		}
		cfg.MaxItems = n
	case "readonly", "hide-ids":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %s", key, value)
		}
		if key == "readonly" {
			cfg.Readonly = b
		} else {
			cfg.HideIDs = b
		}
	case "threshold-cpu", "threshold-mem", "threshold-disk", "threshold-free-disk":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number: %s", key, value)
		}
		switch key {
		case "threshold-cpu":
			cfg.ThresholdCPUUsage = f
		case "threshold-mem":
			cfg.ThresholdMemUsage = f
		case "threshold-disk":
			cfg.ThresholdDiskUsage = f
		case "threshold-free-disk":
			cfg.ThresholdFreeDiskspace = f
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// maskKey hides all but the last four characters of a token.
func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// normalizeKey converts key formats (api-key, api_key, APIKey) to a
// consistent format.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
