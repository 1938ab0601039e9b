package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/monit360/m360/internal/api"
)

// Format selects the output rendering for server listings.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (valid: table, csv, json)", s)
	}
}

// csvHeader is the fixed column line printed in CSV mode.
const csvHeader = "id;server name;ip address;status;os;cpu usage %;mem usage %;disk usage %;free disk space;tags"

// tableHeaders are the table column names, ID first.
var tableHeaders = []string{"ID", "Server name", "IP Address", "Status", "OS", "CPU Usage %", "Mem Usage %", "Disk Usage %", "Disk Info", "Tags"}

// tableRightAlign right-aligns the three usage columns.
var tableRightAlign = []bool{false, false, false, false, false, true, true, true, false, false}

// aggregate accumulates usage sums across one listing pass. It is owned by
// a single Formatter, never shared.
type aggregate struct {
	sumCPU  float64
	sumMem  float64
	sumDisk float64
	count   int
}

// add accumulates one server's usage summary.
func (a *aggregate) add(s api.Summary) {
	a.sumCPU += s.CPUUsagePercent
	a.sumMem += s.MemUsagePercent
	a.sumDisk += s.DiskUsagePercent
	a.count++
}

// averages returns the mean cpu/mem/disk usage. A zero count or zero sum
// yields 0 rather than a division error.
func (a aggregate) averages() (cpu, mem, disk float64) {
	if a.count > 0 {
		if a.sumCPU > 0 {
			cpu = a.sumCPU / float64(a.count)
		}
		if a.sumMem > 0 {
			mem = a.sumMem / float64(a.count)
		}
		if a.sumDisk > 0 {
			disk = a.sumDisk / float64(a.count)
		}
	}
	return cpu, mem, disk
}

// Formatter renders a listing pass as Header, zero or more Rows, and a
// Footer. One Formatter serves exactly one pass.
type Formatter struct {
	w          io.Writer
	format     Format
	thresholds Thresholds
	hideIDs    bool

	table *Table
	agg   aggregate
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithHideIDs drops the ID column from table output.
func WithHideIDs(hide bool) FormatterOption {
	return func(f *Formatter) {
		f.hideIDs = hide
	}
}

// WithColor enables ANSI highlighting of over-threshold table cells.
func WithColor(color bool) FormatterOption {
	return func(f *Formatter) {
		if f.table != nil {
			f.table.color = color
		}
	}
}

// NewFormatter creates a Formatter writing to w.
func NewFormatter(w io.Writer, format Format, thresholds Thresholds, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		w:          w,
		format:     format,
		thresholds: thresholds,
		table:      NewTable(tableHeaders, tableRightAlign, false),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.hideIDs {
		f.table = NewTable(tableHeaders[1:], tableRightAlign[1:], f.table.color)
	}
	return f
}

// Header starts a listing pass: prints the CSV column line in CSV mode and
// resets the aggregate sums.
func (f *Formatter) Header() {
	if f.format == FormatCSV {
		fmt.Fprintln(f.w, csvHeader)
	}
	f.agg = aggregate{}
}

// Row emits one server record in the configured format and accumulates its
// usage into the aggregate.
func (f *Formatter) Row(srv api.Server) error {
	f.agg.add(srv.Summary)

	if f.format == FormatJSON {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(srv)
	}

	cpu := f.usageCell(srv.Summary.CPUUsagePercent, f.thresholds.CPUUsage)
	mem := f.usageCell(srv.Summary.MemUsagePercent, f.thresholds.MemUsage)
	disk := f.usageCell(srv.Summary.DiskUsagePercent, f.thresholds.DiskUsage)
	diskInfo := f.diskInfoCell(srv.LastData.Df)
	tags := strings.Join(srv.Tags, ", ")

	if f.format == FormatCSV {
		fields := []string{srv.ID, srv.Name, srv.IPWhois.IP, srv.Status, srv.OS,
			cpu.Text, mem.Text, disk.Text, diskInfo.Text, tags}
		fmt.Fprintln(f.w, strings.Join(fields, ";"))
		return nil
	}

	row := []Cell{
		{Text: srv.ID},
		{Text: srv.Name},
		{Text: srv.IPWhois.IP},
		{Text: srv.Status},
		{Text: srv.OS},
		cpu,
		mem,
		disk,
		diskInfo,
		{Text: tags},
	}
	if f.hideIDs {
		row = row[1:]
	}
	f.table.AddRow(row)
	return nil
}

// Footer closes a listing pass. In table mode it appends the average row
// and renders the table with the border reinserted above the footer.
func (f *Formatter) Footer() error {
	if f.format != FormatTable {
		return nil
	}

	cpu, mem, disk := f.agg.averages()
	row := []Cell{
		{},
		{Text: fmt.Sprintf("Average of %d servers", f.agg.count)},
		{},
		{},
		{},
		f.usageCell(cpu, f.thresholds.CPUUsage),
		f.usageCell(mem, f.thresholds.MemUsage),
		f.usageCell(disk, f.thresholds.DiskUsage),
		{},
		{},
	}
	if f.hideIDs {
		row = row[1:]
	}
	f.table.AddRow(row)

	_, err := io.WriteString(f.w, f.table.Render(1))
	return err
}

// usageCell formats a usage percentage with one decimal place and flags it
// when it meets or exceeds the threshold.
func (f *Formatter) usageCell(value, threshold float64) Cell {
	return Cell{
		Text:  fmt.Sprintf("%.1f%%", value),
		Alert: value >= threshold,
	}
}

// diskInfoCell builds the comma-joined free-space summary across all
// filesystems. Each entry carries its own flag so only the filesystems at
// or below the free-space threshold are highlighted; separators stay plain.
func (f *Formatter) diskInfoCell(df []api.DiskFree) Cell {
	var cell Cell
	for i, disk := range df {
		if i > 0 {
			cell.Segments = append(cell.Segments, Cell{Text: ", "})
		}
		free := disk.FreePercent()
		cell.Segments = append(cell.Segments, Cell{
			Text:  fmt.Sprintf("%.0f%% free on %s", free, disk.Mount),
			Alert: free <= f.thresholds.FreeDiskspace,
		})
	}
	var text strings.Builder
	for _, seg := range cell.Segments {
		text.WriteString(seg.Text)
	}
	cell.Text = text.String()
	return cell
}
