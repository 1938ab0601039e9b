// Package monitor implements filtering and formatting of monitored servers.
package monitor

import (
	"strings"

	"github.com/monit360/m360/internal/api"
)

// Thresholds are the static usage limits a server is judged against.
// Usage comparisons are inclusive (>=), free disk space is inclusive
// the other way (<=).
type Thresholds struct {
	CPUUsage      float64
	MemUsage      float64
	DiskUsage     float64
	FreeDiskspace float64
}

// MatchesTags reports whether every required tag is present on the server.
// An empty required set matches any server.
func MatchesTags(srv api.Server, required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range srv.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchesPattern reports whether the pattern selects the server: either an
// exact match on the server ID or a substring match on its name.
func MatchesPattern(srv api.Server, pattern string) bool {
	return pattern == srv.ID || strings.Contains(srv.Name, pattern)
}

// HasIssue reports whether any usage metric meets or exceeds its threshold,
// or any filesystem's free space meets or falls below the free-space
// threshold.
func HasIssue(srv api.Server, t Thresholds) bool {
	if srv.Summary.CPUUsagePercent >= t.CPUUsage ||
		srv.Summary.MemUsagePercent >= t.MemUsage ||
		srv.Summary.DiskUsagePercent >= t.DiskUsage {
		return true
	}

	for _, disk := range srv.LastData.Df {
		if disk.FreePercent() <= t.FreeDiskspace {
			return true
		}
	}

	return false
}

// Match combines tag filtering and issues-only filtering with AND semantics.
func Match(srv api.Server, tags []string, issuesOnly bool, t Thresholds) bool {
	if !MatchesTags(srv, tags) {
		return false
	}
	if issuesOnly && !HasIssue(srv, t) {
		return false
	}
	return true
}
