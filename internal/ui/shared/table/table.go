// Package table renders fixed-layout text tables that fit a given width.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

// ColumnConfig describes one column.
type ColumnConfig struct {
	Key    string
	Header string
	// Width fixes the column width. 0 makes the column flex.
	Width    int
	MinWidth int
	MaxWidth int
	// HideBelow hides the column when the table is narrower than this.
	HideBelow int
	// AlignRight right-aligns cells (numbers).
	AlignRight bool
	// Style, when set, styles a cell given its raw value.
	Style func(value string) lipgloss.Style
}

// Row maps column keys to cell values.
type Row map[string]string

// Model is an immutable table view.
type Model struct {
	columns  []ColumnConfig
	rows     []Row
	width    int
	selected int
}

// New creates a table with the given columns. No row is selected.
func New(columns []ColumnConfig) Model {
	return Model{columns: columns, selected: -1}
}

// SetRows replaces the rows.
func (m Model) SetRows(rows []Row) Model {
	m.rows = rows
	return m
}

// SetWidth sets the total width available to the table.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// SetSelected highlights row i. -1 clears the highlight.
func (m Model) SetSelected(i int) Model {
	m.selected = i
	return m
}

// View renders the header, a rule and the rows.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	cols := filterVisibleColumns(m.columns, m.width)
	if len(cols) == 0 {
		return ""
	}
	widths := calculateColumnWidths(cols, m.width)

	var b strings.Builder
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = styles.SubtitleStyle.Bold(true).Render(cell(col.Header, widths[i], col.AlignRight))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	total := len(cols) - 1
	for _, w := range widths {
		total += w
	}
	b.WriteString(styles.MutedStyle.Render(strings.Repeat("─", min(total, m.width))))

	for r, row := range m.rows {
		b.WriteString("\n")
		cells := make([]string, len(cols))
		for i, col := range cols {
			text := cell(row[col.Key], widths[i], col.AlignRight)
			if col.Style != nil {
				text = col.Style(row[col.Key]).Render(text)
			}
			cells[i] = text
		}
		line := strings.Join(cells, " ")
		if r == m.selected {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
	}
	return b.String()
}

// cell truncates value to width, ending in "…" when cut, and pads it.
func cell(value string, width int, alignRight bool) string {
	value = strings.ReplaceAll(value, "\n", " ")
	if ansi.StringWidth(value) > width {
		value = ansi.Truncate(value, width, "…")
	}
	pad := max(width-runewidth.StringWidth(ansi.Strip(value)), 0)
	if alignRight {
		return strings.Repeat(" ", pad) + value
	}
	return value + strings.Repeat(" ", pad)
}
