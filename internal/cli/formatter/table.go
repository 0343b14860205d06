package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders a simple aligned table with a header separator line.
// Column widths are computed from visible width so styled cells align.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	pad := func(s string, width int) string {
		return s + strings.Repeat(" ", width-lipgloss.Width(s))
	}

	var b strings.Builder
	total := 0
	for i, h := range headers {
		b.WriteString(pad(StyleHeader.Render(h), widths[i]))
		total += widths[i]
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
			total += colGap
		}
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", total)))

	for _, row := range rows {
		b.WriteString("\n")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i < cols-1 {
				b.WriteString(pad(cell, widths[i]))
				b.WriteString(strings.Repeat(" ", colGap))
			} else {
				b.WriteString(cell)
			}
		}
	}
	return b.String()
}
