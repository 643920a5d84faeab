package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// widthStepColumns mirrors the confirmation screen's step table.
func widthStepColumns() []ColumnConfig {
	return []ColumnConfig{
		{Key: "order", Header: "#", Width: 3, AlignRight: true},
		{Key: "title", Header: "Step", MinWidth: 12},
		{Key: "tool", Header: "Tool", MaxWidth: 14, HideBelow: 60},
		{Key: "agent", Header: "Agent", MaxWidth: 20, HideBelow: 80},
		{Key: "confidence", Header: "Conf", Width: 5, AlignRight: true},
	}
}

func TestCalculateColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		cols  []ColumnConfig
		total int
		want  []int
	}{
		{
			name:  "no columns",
			cols:  nil,
			total: 80,
			want:  []int{},
		},
		{
			name:  "fixed columns keep their width",
			cols:  []ColumnConfig{{Width: 8}, {Width: 36}},
			total: 100,
			want:  []int{8, 36},
		},
		{
			name:  "flex columns split the rest, earlier ones take the remainder",
			cols:  []ColumnConfig{{}, {}, {}},
			total: 24, // 22 after separators
			want:  []int{8, 7, 7},
		},
		{
			name:  "approvals list: id and date fixed, prompt flexes",
			cols:  []ColumnConfig{{Width: 8}, {Width: 16}, {Width: 5}, {}},
			total: 100,
			want:  []int{8, 16, 5, 68},
		},
		{
			name:  "max width caps a flex column",
			cols:  []ColumnConfig{{MaxWidth: 10}, {}},
			total: 61,
			want:  []int{10, 30},
		},
		{
			name:  "min width wins over an even split",
			cols:  []ColumnConfig{{MinWidth: 20}, {}},
			total: 21,
			want:  []int{20, 10},
		},
		{
			name:  "fixed columns overflow: flex collapses to the floor",
			cols:  []ColumnConfig{{Width: 30}, {}},
			total: 20,
			want:  []int{30, minColumnWidth},
		},
		{
			name:  "tiny fixed width is raised to the floor",
			cols:  []ColumnConfig{{Width: 1}},
			total: 10,
			want:  []int{minColumnWidth},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateColumnWidths(tt.cols, tt.total))
		})
	}
}

func TestFilterVisibleColumns(t *testing.T) {
	keys := func(cols []ColumnConfig) []string {
		var out []string
		for _, c := range cols {
			out = append(out, c.Key)
		}
		return out
	}

	assert.Equal(t, []string{"order", "title", "tool", "agent", "confidence"}, keys(filterVisibleColumns(widthStepColumns(), 100)))
	assert.Equal(t, []string{"order", "title", "tool", "confidence"}, keys(filterVisibleColumns(widthStepColumns(), 79)))
	assert.Equal(t, []string{"order", "title", "confidence"}, keys(filterVisibleColumns(widthStepColumns(), 40)))
}

func TestCalculateColumnWidths_FillsWhenUnconstrained(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nFixed := rapid.IntRange(0, 3).Draw(t, "fixed")
		nFlex := rapid.IntRange(1, 3).Draw(t, "flex")
		var cols []ColumnConfig
		used := 0
		for i := range nFixed {
			w := rapid.IntRange(minColumnWidth, 10).Draw(t, "w"+string(rune('a'+i)))
			used += w
			cols = append(cols, ColumnConfig{Width: w})
		}
		for range nFlex {
			cols = append(cols, ColumnConfig{})
		}
		sep := len(cols) - 1
		// Enough room for every flex column to get at least the floor.
		total := used + sep + nFlex*minColumnWidth + rapid.IntRange(0, 200).Draw(t, "extra")

		widths := calculateColumnWidths(cols, total)

		require.Len(t, widths, len(cols))
		sum := sep
		for _, w := range widths {
			require.GreaterOrEqual(t, w, minColumnWidth)
			sum += w
		}
		require.Equal(t, total, sum)
	})
}
