package monitor

import "strings"

// ANSI escape codes for highlighted cells.
const (
	ansiAlert = "\033[91m"
	ansiReset = "\033[0m"
)

// Cell is one table cell: plain text plus an over-threshold flag. Markup is
// applied only at render time so the comparison logic stays testable.
//
// A cell holding several values (the disk-info column) carries them as
// Segments, each with its own flag, so only the tripping values are
// highlighted. Text must equal the concatenated segment texts; width math
// always uses Text.
type Cell struct {
	Text     string
	Alert    bool
	Segments []Cell
}

// Table renders rows with ASCII borders in the classic +---+ style.
type Table struct {
	headers    []string
	rows       [][]Cell
	rightAlign []bool
	color      bool
}

// NewTable creates a table with the given column headers. Columns marked in
// rightAlign are right-aligned; rightAlign may be nil for all-left columns.
func NewTable(headers []string, rightAlign []bool, color bool) *Table {
	return &Table{
		headers:    headers,
		rightAlign: rightAlign,
		color:      color,
	}
}

// AddRow appends a row. The number of cells must match the headers.
func (t *Table) AddRow(cells []Cell) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render draws the table. The last footerRows rows are separated from the
// body by an extra border line so they read as a summary footer.
func (t *Table) Render(footerRows int) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if len(c.Text) > widths[i] {
				widths[i] = len(c.Text)
			}
		}
	}

	border := t.borderLine(widths)

	var sb strings.Builder
	sb.WriteString(border)
	sb.WriteString("\n")

	headerCells := make([]Cell, len(t.headers))
	for i, h := range t.headers {
		headerCells[i] = Cell{Text: h}
	}
	t.writeRow(&sb, headerCells, widths)
	sb.WriteString(border)
	sb.WriteString("\n")

	bodyEnd := len(t.rows) - footerRows
	if bodyEnd < 0 {
		bodyEnd = 0
	}
	for _, row := range t.rows[:bodyEnd] {
		t.writeRow(&sb, row, widths)
	}
	if footerRows > 0 && bodyEnd < len(t.rows) {
		sb.WriteString(border)
		sb.WriteString("\n")
		for _, row := range t.rows[bodyEnd:] {
			t.writeRow(&sb, row, widths)
		}
	}

	sb.WriteString(border)
	sb.WriteString("\n")
	return sb.String()
}

// borderLine builds the +---+---+ separator for the given column widths.
func (t *Table) borderLine(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// writeRow writes one padded row. Padding is computed from the plain text
// and color applied per value, so ANSI codes never skew column widths.
func (t *Table) writeRow(sb *strings.Builder, row []Cell, widths []int) {
	for i, c := range row {
		pad := widths[i] - len(c.Text)
		if pad < 0 {
			pad = 0
		}
		rendered := renderCell(c, t.color)
		sb.WriteString("| ")
		if len(t.rightAlign) > i && t.rightAlign[i] {
			sb.WriteString(strings.Repeat(" ", pad))
			sb.WriteString(rendered)
		} else {
			sb.WriteString(rendered)
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}

// renderCell returns the cell text with ANSI markup on flagged values.
// Segmented cells highlight only their flagged segments.
func renderCell(c Cell, color bool) string {
	if !color {
		return c.Text
	}
	if len(c.Segments) == 0 {
		if c.Alert {
			return ansiAlert + c.Text + ansiReset
		}
		return c.Text
	}
	var sb strings.Builder
	for _, seg := range c.Segments {
		if seg.Alert {
			sb.WriteString(ansiAlert)
			sb.WriteString(seg.Text)
			sb.WriteString(ansiReset)
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}
