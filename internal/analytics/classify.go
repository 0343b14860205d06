package analytics

import (
	"strings"

	"trama/internal/domain"
)

// Type hints that always mark a node as a workable task, and hints that
// always exclude it (structural or grouping nodes). Matching is
// case-insensitive on the trimmed value.
var (
	taskTypes = map[string]bool{
		"task": true, "tarefa": true, "atividade": true,
		"activity": true, "subtask": true, "subtarefa": true,
		"item": true, "deliverable": true, "entrega": true,
	}
	nonTaskTypes = map[string]bool{
		"project": true, "projeto": true, "phase": true, "fase": true,
		"milestone": true, "marco": true, "group": true, "grupo": true,
		"folder": true, "pasta": true, "epic": true, "epico": true,
	}
)

// IsTaskNode reports whether a node counts as a workable task for
// analytics. Soft-deleted nodes never count. A recognized type hint
// decides outright; with no usable hint, any task-bearing field (status,
// priority, dates, assignee) qualifies the node.
func IsTaskNode(n *domain.Node) bool {
	if n == nil || n.IsDeleted() {
		return false
	}
	hint := strings.ToLower(strings.TrimSpace(n.Type))
	if taskTypes[hint] {
		return true
	}
	if nonTaskTypes[hint] {
		return false
	}
	return n.Status != "" || n.Priority != "" ||
		n.StartDate != nil || n.EndDate != nil ||
		n.Responsible != nil || n.Owner != nil ||
		n.ResponsibleName != "" || n.OwnerID != ""
}

// TaskNodes filters the input down to workable tasks, preserving order.
func TaskNodes(nodes []*domain.Node) []*domain.Node {
	out := make([]*domain.Node, 0, len(nodes))
	for _, n := range nodes {
		if IsTaskNode(n) {
			out = append(out, n)
		}
	}
	return out
}
