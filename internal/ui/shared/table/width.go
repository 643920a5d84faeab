package table

// minColumnWidth leaves room for at least a one-cell value plus "…".
const minColumnWidth = 2

// calculateColumnWidths distributes totalWidth (inside any border) across
// columns. Fixed columns (Width > 0) are allocated first; the remainder is
// split evenly between flex columns, earlier columns taking any leftover
// cell, then clamped to MinWidth/MaxWidth. One separator cell sits between
// adjacent columns.
func calculateColumnWidths(cols []ColumnConfig, totalWidth int) []int {
	if len(cols) == 0 {
		return []int{}
	}

	widths := make([]int, len(cols))
	var flexCols []int
	availableWidth := totalWidth - (len(cols) - 1)

	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			availableWidth -= col.Width
		} else {
			flexCols = append(flexCols, i)
		}
	}

	if len(flexCols) > 0 {
		if availableWidth <= 0 {
			for _, i := range flexCols {
				widths[i] = minColumnWidth
			}
		} else {
			perCol := availableWidth / len(flexCols)
			remainder := availableWidth % len(flexCols)

			for j, i := range flexCols {
				w := perCol
				if j < remainder {
					w++
				}
				w = max(w, cols[i].MinWidth, minColumnWidth)
				if cols[i].MaxWidth > 0 && w > cols[i].MaxWidth {
					w = cols[i].MaxWidth
				}
				widths[i] = w
			}
		}
	}

	for i := range widths {
		widths[i] = max(widths[i], minColumnWidth)
	}
	return widths
}

// filterVisibleColumns drops columns whose HideBelow exceeds totalWidth.
func filterVisibleColumns(cols []ColumnConfig, totalWidth int) []ColumnConfig {
	visible := make([]ColumnConfig, 0, len(cols))
	for _, col := range cols {
		if col.HideBelow > 0 && totalWidth < col.HideBelow {
			continue
		}
		visible = append(visible, col)
	}
	return visible
}
