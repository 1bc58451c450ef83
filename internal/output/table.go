package output

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Table lays out rows in padded columns for text output. Rows may be
// shorter or longer than the header; the widest row decides the column
// count.
type Table struct {
	headers  []string
	rows     [][]string
	noHeader bool
	sep      string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, sep: "  "}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetNoHeader hides the header and its underline.
func (t *Table) SetNoHeader(noHeader bool) {
	t.noHeader = noHeader
}

// SetSeparator sets the text placed between columns.
func (t *Table) SetSeparator(sep string) {
	t.sep = sep
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

// String returns the rendered table.
func (t *Table) String() string {
	widths := t.widths()
	if len(widths) == 0 {
		return ""
	}

	var sb strings.Builder
	if !t.noHeader && len(t.headers) > 0 {
		t.line(&sb, t.headers, widths)
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		t.line(&sb, rule, widths)
	}
	for _, row := range t.rows {
		t.line(&sb, row, widths)
	}
	return sb.String()
}

func (t *Table) widths() []int {
	var widths []int
	measure := func(cells []string) {
		for i, c := range cells {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}
	if !t.noHeader {
		measure(t.headers)
	}
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) line(sb *strings.Builder, cells []string, widths []int) {
	var row strings.Builder
	for i, n := range widths {
		if i > 0 {
			row.WriteString(t.sep)
		}
		var c string
		if i < len(cells) {
			c = cells[i]
		}
		row.WriteString(c)
		row.WriteString(strings.Repeat(" ", n-utf8.RuneCountInString(c)))
	}
	sb.WriteString(strings.TrimRight(row.String(), " "))
	sb.WriteByte('\n')
}
