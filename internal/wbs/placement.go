package wbs

import "sort"

// Placement is one position write derived from comparing two snapshots:
// the node now sits under ParentID at SortOrder.
type Placement struct {
	NodeID    string
	ParentID  string
	SortOrder int
}

// PlacementDiff lists the nodes whose parent or sibling position differs
// from prev, in stable id order. Ordering mutations renumber whole sibling
// groups, so persistence replays this diff instead of guessing which rows
// a reorder touched.
func (s *Snapshot) PlacementDiff(prev *Snapshot) []Placement {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Placement
	for _, id := range ids {
		n := s.nodes[id]
		parent := s.parents[id]
		if old := prev.Get(id); old != nil &&
			old.SortOrder == n.SortOrder && prev.ParentOf(id) == parent {
			continue
		}
		out = append(out, Placement{NodeID: id, ParentID: parent, SortOrder: n.SortOrder})
	}
	return out
}

// EntryOf returns the node and its parent id as a persistence entry.
func (s *Snapshot) EntryOf(id string) (Entry, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Entry{}, false
	}
	return Entry{Node: n, ParentID: s.parents[id]}, true
}
