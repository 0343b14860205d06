package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trama/internal/domain"
	"trama/internal/wbs"
)

func wbsRow(id, code, title string, level int, parentID string, hasChildren bool) wbs.Row {
	return wbs.Row{
		Node:        &domain.Node{ID: id, Title: title},
		DisplayCode: code,
		Level:       level,
		ParentID:    parentID,
		HasChildren: hasChildren,
	}
}

func TestRenderWBS_Empty(t *testing.T) {
	assert.Contains(t, RenderWBS(nil, nil), "No tasks yet")
}

func TestRenderWBS_Connectors(t *testing.T) {
	rows := []wbs.Row{
		wbsRow("a", "1", "Phase", 0, "", true),
		wbsRow("b", "1.1", "First", 1, "a", false),
		wbsRow("c", "1.2", "Second", 1, "a", false),
	}
	out := RenderWBS(rows, map[string]int{"a": 50})

	assert.Contains(t, out, "├─ 1.1 First")
	assert.Contains(t, out, "└─ 1.2 Second")
	assert.Contains(t, out, " 50%", "group row carries the rolled-up progress bar")
}

func TestRenderWBS_NestedPipes(t *testing.T) {
	rows := []wbs.Row{
		wbsRow("a", "1", "Phase", 0, "", true),
		wbsRow("b", "1.1", "Group", 1, "a", true),
		wbsRow("c", "1.1.1", "Leaf", 2, "b", false),
		wbsRow("d", "1.2", "Tail", 1, "a", false),
	}
	out := RenderWBS(rows, nil)

	// The leaf under 1.1 is the last of its own siblings even though 1.2
	// follows at a shallower level.
	assert.Contains(t, out, "│  └─ 1.1.1 Leaf")
	assert.Contains(t, out, "└─ 1.2 Tail")
}

func TestRenderWBS_StatusMarkers(t *testing.T) {
	done := wbsRow("a", "1", "Shipped", 0, "", false)
	done.Node.Status = "DONE"
	late := wbsRow("b", "2", "Slipping", 0, "", false)
	late.Node.Status = "DELAYED"

	out := RenderWBS([]wbs.Row{done, late}, nil)
	assert.Contains(t, out, "✔ Shipped")
	assert.Contains(t, out, "▲ Slipping")
}

func TestRenderWBS_ExplicitCodeWins(t *testing.T) {
	row := wbsRow("a", "1", "Task", 0, "", false)
	row.Node.Code = "EP-4"
	out := RenderWBS([]wbs.Row{row}, nil)
	assert.Contains(t, out, "EP-4 Task")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"Name", "Hours"}, [][]string{
		{"Design", "16h"},
		{"Implementation", "40h"},
	})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Implementation  40h")
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill("DONE"), "Finalizado")
	assert.Contains(t, StatusPill("Em atraso"), "Em atraso")
	assert.Contains(t, StatusPill(""), "Não iniciado")
}

func TestPriorityPill(t *testing.T) {
	assert.Contains(t, PriorityPill("URGENTE"), "Urgente")
	assert.Contains(t, PriorityPill(""), "Media")
}
