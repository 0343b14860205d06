package wbs

import (
	"strconv"
	"strings"

	"trama/internal/domain"
)

// Row is one flattened tree entry, the unit an editor UI renders.
type Row struct {
	Node        *domain.Node
	DisplayCode string // dot-joined 1-based sibling index path, e.g. "2.3"
	Level       int
	ParentID    string
	HasChildren bool
}

// Code returns the code to display for the row: the node's explicit
// external code when present, otherwise the computed path. Internal
// correctness never depends on explicit codes.
func (r Row) Code() string {
	return domain.CoalesceStr(r.Node.Code, r.DisplayCode)
}

// Flatten walks the active tree depth-first and returns one Row per
// non-soft-deleted node in document order. Display codes are recomputed
// from scratch on every call so they stay correct after any reorder.
func (s *Snapshot) Flatten() []Row {
	var rows []Row
	var walk func(parentID string, prefix []int, level int)
	walk = func(parentID string, prefix []int, level int) {
		for i, n := range s.ChildrenOf(parentID) {
			marker := append(append([]int(nil), prefix...), i+1)
			rows = append(rows, Row{
				Node:        n,
				DisplayCode: joinMarker(marker),
				Level:       level,
				ParentID:    parentID,
				HasChildren: len(s.ChildrenOf(n.ID)) > 0,
			})
			walk(n.ID, marker, level+1)
		}
	}
	walk(RootID, nil, 0)
	return rows
}

func joinMarker(marker []int) string {
	parts := make([]string, len(marker))
	for i, m := range marker {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ".")
}

// DefaultExpanded reports the expand state used for a node with no explicit
// entry in the expanded set: only top-level parents start open.
func DefaultExpanded(level int) bool { return level < 1 }

// Project filters rows down to the visible set: a row is kept iff every
// ancestor is expanded. Root-level rows are always visible; ancestors
// absent from the expanded set fall back to DefaultExpanded.
func Project(rows []Row, expanded map[string]bool) []Row {
	byID := make(map[string]Row, len(rows))
	for _, r := range rows {
		byID[r.Node.ID] = r
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Level == 0 {
			out = append(out, r)
			continue
		}
		visible := true
		for parentID := r.ParentID; parentID != RootID; {
			parentRow, ok := byID[parentID]
			if !ok {
				break
			}
			open, set := expanded[parentID]
			if !set {
				open = DefaultExpanded(parentRow.Level)
			}
			if !open {
				visible = false
				break
			}
			parentID = parentRow.ParentID
		}
		if visible {
			out = append(out, r)
		}
	}
	return out
}
