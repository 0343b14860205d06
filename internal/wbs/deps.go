package wbs

import "trama/internal/domain"

// DependencyRef is the display resolution of one predecessor reference.
// Unresolved references carry the raw id as their label instead of failing;
// the tree tolerates dangling ids.
type DependencyRef struct {
	ID       string
	Label    string
	Title    string
	Resolved bool
}

// AddDependency records predecessorID as a predecessor of nodeID. A node
// may never depend on itself and duplicates are not recorded; both cases
// are silent no-ops, as is an unknown nodeID. The predecessor id is NOT
// required to resolve: upstream data may legitimately reference nodes that
// were since removed.
func (s *Snapshot) AddDependency(nodeID, predecessorID string) (*Snapshot, *Intent) {
	n := s.nodes[nodeID]
	if n == nil || predecessorID == "" || predecessorID == nodeID {
		return s, nil
	}
	for _, dep := range n.Dependencies {
		if dep == predecessorID {
			return s, nil
		}
	}
	next := s.clone()
	c := next.mutableNode(nodeID)
	c.Dependencies = append(c.Dependencies, predecessorID)
	return next, &Intent{Scope: ScopeDependency, NodeID: nodeID}
}

// RemoveDependency drops predecessorID from nodeID's predecessor set;
// removing an absent entry is a silent no-op.
func (s *Snapshot) RemoveDependency(nodeID, predecessorID string) (*Snapshot, *Intent) {
	n := s.nodes[nodeID]
	if n == nil {
		return s, nil
	}
	idx := -1
	for i, dep := range n.Dependencies {
		if dep == predecessorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, nil
	}
	next := s.clone()
	c := next.mutableNode(nodeID)
	c.Dependencies = append(c.Dependencies[:idx:idx], c.Dependencies[idx+1:]...)
	return next, &Intent{Scope: ScopeDependency, NodeID: nodeID}
}

// ResolveDependencies maps a node's predecessor ids to display references.
// Lookups search the full index including soft-deleted nodes; ids that no
// longer resolve come back with Resolved=false and the raw id as label.
// Duplicate ids in dirty source data are collapsed to one reference.
func (s *Snapshot) ResolveDependencies(nodeID string) []DependencyRef {
	n := s.nodes[nodeID]
	if n == nil || len(n.Dependencies) == 0 {
		return nil
	}

	codes := make(map[string]string, len(s.nodes))
	for _, row := range s.Flatten() {
		codes[row.Node.ID] = row.Code()
	}

	seen := make(map[string]bool, len(n.Dependencies))
	out := make([]DependencyRef, 0, len(n.Dependencies))
	for _, dep := range n.Dependencies {
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		target := s.nodes[dep]
		if target == nil {
			out = append(out, DependencyRef{ID: dep, Label: dep})
			continue
		}
		label := domain.CoalesceStr(target.Code, codes[dep], dep)
		out = append(out, DependencyRef{
			ID:       dep,
			Label:    label,
			Title:    target.Title,
			Resolved: true,
		})
	}
	return out
}
