package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trama/internal/domain"
	"trama/internal/wbs"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderWBS renders flattened tree rows with their dotted codes, status
// coloring and a right-aligned badge column. Progress values come from the
// rolled-up progress map; group rows show a bar, leaves show their badge.
func RenderWBS(rows []wbs.Row, progress map[string]int) string {
	if len(rows) == 0 {
		return Dim("No tasks yet.")
	}

	type line struct {
		content string
		badge   string
	}

	lines := make([]line, len(rows))
	maxWidth := 0

	for idx, row := range rows {
		prefix := connectorPrefix(rows, idx)

		status := domain.NormalizeStatus(row.Node.Status)
		code := StyleDim.Render(row.Code())
		title := row.Node.Title
		switch status {
		case domain.StatusDone:
			title = StatusStyle(status).Render("✔ ") + Dim(title)
		case domain.StatusLate, domain.StatusAtRisk:
			title = StatusStyle(status).Render("▲ " + title)
		case domain.StatusInProgress:
			title = StyleYellowBold.Render("▶ ") + StyleFg.Render(title)
		default:
			title = StyleFg.Render(title)
		}

		lines[idx].content = prefix + code + " " + title
		lines[idx].badge = rowBadge(row, progress)

		if w := lipgloss.Width(lines[idx].content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for i, ln := range lines {
		b.WriteString(ln.content)
		if ln.badge != "" {
			pad := maxWidth - lipgloss.Width(ln.content) + 2
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(ln.badge)
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// connectorPrefix builds the box-drawing indent for one row. A sibling is
// "last" when no later row at the same level shares its parent.
func connectorPrefix(rows []wbs.Row, idx int) string {
	row := rows[idx]
	if row.Level == 0 {
		return ""
	}

	last := true
	for _, later := range rows[idx+1:] {
		if later.Level < row.Level {
			break
		}
		if later.Level == row.Level && later.ParentID == row.ParentID {
			last = false
			break
		}
	}

	prefix := strings.Repeat(treePipe, row.Level-1)
	if last {
		return prefix + treeCorner
	}
	return prefix + treeBranch
}

func rowBadge(row wbs.Row, progress map[string]int) string {
	if row.HasChildren {
		return RenderProgress(progress[row.Node.ID], 10)
	}

	var parts []string
	if row.Node.EndDate != nil {
		parts = append(parts, row.Node.EndDate.Format("02/01"))
	}
	if name := domain.ResolveResponsibleName(row.Node); name != "" {
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return ""
	}
	return StyleBlue.Render(fmt.Sprintf("[ %s ]", strings.Join(parts, " · ")))
}
