// Package api implements the HTTP client for the 360-style monitoring API.
package api

// Server is one monitored server as returned by the /servers endpoint.
// Nested objects are optional on the wire; missing fields decode to zero
// values and are never an error.
type Server struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OS           string   `json:"os,omitempty"`
	Status       string   `json:"status,omitempty"`
	AgentVersion string   `json:"agent_version,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ConnectingIP string   `json:"connecting_ip,omitempty"`
	IPWhois      IPWhois  `json:"ip_whois,omitempty"`
	Summary      Summary  `json:"summary,omitempty"`
	LastData     LastData `json:"last_data,omitempty"`
}

// IPWhois holds whois details for the server's public IP.
type IPWhois struct {
	IP      string `json:"ip,omitempty"`
	Country string `json:"country,omitempty"`
	Org     string `json:"org,omitempty"`
}

// Summary holds the rolled-up usage percentages.
type Summary struct {
	CPUUsagePercent  float64 `json:"cpu_usage_percent"`
	MemUsagePercent  float64 `json:"mem_usage_percent"`
	DiskUsagePercent float64 `json:"disk_usage_percent"`
}

// LastData holds the most recent agent measurement.
type LastData struct {
	Uptime Uptime     `json:"uptime,omitempty"`
	Cores  int        `json:"cores,omitempty"`
	Memory Memory     `json:"memory,omitempty"`
	Df     []DiskFree `json:"df,omitempty"`
}

// Uptime holds the server uptime.
type Uptime struct {
	Seconds int64 `json:"seconds"`
}

// Memory holds memory usage in bytes.
type Memory struct {
	Used      int64 `json:"used"`
	Free      int64 `json:"free"`
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}

// DiskFree is one filesystem entry from the df measurement.
type DiskFree struct {
	Mount     string `json:"mount"`
	FreeBytes int64  `json:"free_bytes"`
	UsedBytes int64  `json:"used_bytes"`
}

// FreePercent returns the free disk space percentage for the filesystem.
// A filesystem reporting zero total bytes counts as 0% free.
func (d DiskFree) FreePercent() float64 {
	total := d.FreeBytes + d.UsedBytes
	if total == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(total) * 100
}

// serversResponse is the wire envelope of the /servers endpoint.
type serversResponse struct {
	Servers []Server `json:"servers"`
}

// tagsRequest is the body of the PUT /server/{id} tag update.
type tagsRequest struct {
	Tags []string `json:"tags"`
}
