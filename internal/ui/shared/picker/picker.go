// Package picker provides a filterable popup list for choosing one value
// out of a small set, such as a step's tool or agent.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

const defaultMaxVisible = 6

// Item is one choice.
type Item struct {
	Label  string
	Detail string // optional, rendered dimmed after the label
}

// Model is the picker state. It is inactive until Activate is called.
type Model struct {
	title        string
	items        []Item
	filtered     []Item
	query        string
	active       bool
	cursor       int
	maxVisible   int
	scrollOffset int
}

// New creates an inactive picker with the given title.
func New(title string) Model {
	return Model{title: title, maxVisible: defaultMaxVisible}
}

// SetMaxVisible sets how many rows are shown before scrolling.
func (m Model) SetMaxVisible(n int) Model {
	if n > 0 {
		m.maxVisible = n
	}
	return m
}

// Activate opens the picker over items with an empty query.
func (m Model) Activate(items []Item) Model {
	m.items = items
	m.filtered = items
	m.query = ""
	m.active = true
	m.cursor = 0
	m.scrollOffset = 0
	return m
}

// ActivateAt opens the picker with the cursor on the item labeled label.
func (m Model) ActivateAt(items []Item, label string) Model {
	m = m.Activate(items)
	for i, it := range items {
		if it.Label == label {
			m.cursor = i
			m.ensureVisible()
			break
		}
	}
	return m
}

// Deactivate closes the picker.
func (m Model) Deactivate() Model {
	m.active = false
	m.query = ""
	m.filtered = nil
	return m
}

// IsActive reports whether the picker is open.
func (m Model) IsActive() bool {
	return m.active
}

// Title returns the picker title.
func (m Model) Title() string {
	return m.title
}

// Query returns the current filter text.
func (m Model) Query() string {
	return m.query
}

// Selected returns the item under the cursor, or nil when nothing matches.
func (m Model) Selected() *Item {
	if !m.active || len(m.filtered) == 0 {
		return nil
	}
	it := m.filtered[m.cursor]
	return &it
}

// UpdateQuery refilters the items and reports whether anything matched.
// Matching is a case-insensitive substring test on label and detail.
func (m Model) UpdateQuery(query string) (Model, bool) {
	m.query = query
	q := strings.ToLower(query)

	if q == "" {
		m.filtered = m.items
	} else {
		m.filtered = nil
		for _, it := range m.items {
			if strings.Contains(strings.ToLower(it.Label), q) ||
				strings.Contains(strings.ToLower(it.Detail), q) {
				m.filtered = append(m.filtered, it)
			}
		}
	}

	m.cursor = 0
	m.scrollOffset = 0
	return m, len(m.filtered) > 0
}

// Next moves the cursor down, wrapping at the end.
func (m Model) Next() Model {
	if len(m.filtered) == 0 {
		return m
	}
	m.cursor = (m.cursor + 1) % len(m.filtered)
	m.ensureVisible()
	return m
}

// Prev moves the cursor up, wrapping at the start.
func (m Model) Prev() Model {
	if len(m.filtered) == 0 {
		return m
	}
	m.cursor = (m.cursor - 1 + len(m.filtered)) % len(m.filtered)
	m.ensureVisible()
	return m
}

func (m *Model) ensureVisible() {
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+m.maxVisible {
		m.scrollOffset = m.cursor - m.maxVisible + 1
	}
}

// HandleKey processes a key while the picker is open. It returns whether
// the key was consumed and, on enter, the chosen item. Printable keys
// extend the filter, so navigation uses the arrows and ctrl+n/ctrl+p.
func (m Model) HandleKey(msg tea.KeyMsg) (Model, bool, *Item) {
	if !m.active {
		return m, false, nil
	}

	switch msg.Type {
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		return m.Next(), true, nil
	case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
		return m.Prev(), true, nil
	case tea.KeyEnter:
		selected := m.Selected()
		return m.Deactivate(), true, selected
	case tea.KeyEsc:
		return m.Deactivate(), true, nil
	case tea.KeyBackspace:
		if q := []rune(m.query); len(q) > 0 {
			m, _ = m.UpdateQuery(string(q[:len(q)-1]))
		}
		return m, true, nil
	case tea.KeyRunes, tea.KeySpace:
		m, _ = m.UpdateQuery(m.query + string(msg.Runes))
		return m, true, nil
	}

	// Swallow everything else so it does not reach the screen behind.
	return m, true, nil
}

// Height returns the rendered height for the current filter.
func (m Model) Height() int {
	if !m.active {
		return 0
	}
	rows := max(min(len(m.filtered), m.maxVisible), 1)
	h := rows + 3 // borders and the query line
	if len(m.filtered) > m.maxVisible {
		h++
	}
	return h
}

// View renders the picker no wider than maxWidth.
func (m Model) View(maxWidth int) string {
	if !m.active || len(m.items) == 0 {
		return ""
	}

	labelWidth := 0
	for _, it := range m.filtered {
		labelWidth = max(labelWidth, runewidth.StringWidth(it.Label))
	}
	inner := max(maxWidth-4, 10)
	labelWidth = min(labelWidth, inner)

	var rows []string
	query := styles.MutedStyle.Render(m.title+": ") + m.query + "▏"
	rows = append(rows, styles.TruncateString(query, inner))

	if len(m.filtered) == 0 {
		rows = append(rows, styles.MutedStyle.Render("no matches"))
	}

	end := min(m.scrollOffset+m.maxVisible, len(m.filtered))
	for i := m.scrollOffset; i < end; i++ {
		it := m.filtered[i]
		label := runewidth.FillRight(runewidth.Truncate(it.Label, labelWidth, "…"), labelWidth)
		line := label
		if it.Detail != "" && inner > labelWidth+3 {
			detail := runewidth.Truncate(it.Detail, inner-labelWidth-3, "…")
			line += styles.MutedStyle.Render(" │ " + detail)
		}
		if i == m.cursor {
			line = styles.SelectedStyle.Render(runewidth.FillRight(label, labelWidth)) +
				strings.TrimPrefix(line, label)
		}
		rows = append(rows, line)
	}

	if len(m.filtered) > m.maxVisible {
		rows = append(rows, styles.MutedStyle.Render(
			fmt.Sprintf("%d-%d of %d", m.scrollOffset+1, end, len(m.filtered))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}
