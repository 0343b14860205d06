package wbs

// Reorder moves a node to targetIndex within its own sibling list. Both
// source and target positions must belong to the same parent; moving to the
// current position, an unknown id or an out-of-range index is a silent
// no-op. SortOrder is re-densified for that sibling list only.
func (s *Snapshot) Reorder(id string, targetIndex int) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || n.IsDeleted() {
		return s, nil
	}
	parent := s.parents[id]
	active := s.activeIDs(parent)
	current := indexOf(active, id)
	if current < 0 || targetIndex < 0 || targetIndex >= len(active) || targetIndex == current {
		return s, nil
	}

	next := s.clone()
	next.removeChild(parent, id)
	next.insertChild(parent, id, targetIndex)
	return next, &Intent{
		Scope:      ScopeReorder,
		NodeID:     id,
		ParentID:   parent,
		Position:   targetIndex,
		OrderedIDs: next.activeIDs(parent),
	}
}

// Promote moves the node out one level: it becomes a sibling of its former
// parent, inserted immediately after it in the grandparent's list (or at
// root level when the former parent was a root). A root node has nowhere to
// go and the call is a silent no-op.
func (s *Snapshot) Promote(id string) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || n.IsDeleted() {
		return s, nil
	}
	parent := s.parents[id]
	if parent == RootID {
		return s, nil
	}
	grandparent := s.parents[parent]

	next := s.clone()
	next.removeChild(parent, id)
	next.densify(parent)

	position := len(next.activeIDs(grandparent))
	if idx := indexOf(next.activeIDs(grandparent), parent); idx >= 0 {
		position = idx + 1
	}
	next.insertChild(grandparent, id, position)

	return next, &Intent{
		Scope:      ScopeMove,
		NodeID:     id,
		ParentID:   grandparent,
		Position:   position,
		OrderedIDs: next.activeIDs(grandparent),
	}
}

// Demote nests the node under its immediately preceding sibling, appended
// as that sibling's last child. The first sibling has no predecessor and
// the call is a silent no-op. The intent's Expand field names the new
// parent so the caller keeps the moved node visible.
func (s *Snapshot) Demote(id string) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || n.IsDeleted() {
		return s, nil
	}
	parent := s.parents[id]
	active := s.activeIDs(parent)
	current := indexOf(active, id)
	if current <= 0 {
		return s, nil
	}
	newParent := active[current-1]

	next := s.clone()
	next.removeChild(parent, id)
	next.densify(parent)
	position := len(next.activeIDs(newParent))
	next.insertChild(newParent, id, position)

	return next, &Intent{
		Scope:      ScopeMove,
		NodeID:     id,
		ParentID:   newParent,
		Position:   position,
		OrderedIDs: next.activeIDs(newParent),
		Expand:     newParent,
	}
}

// Move places the node under parentID at the given position, covering the
// generic "move node A to position P under parent Q" contract. Moving a
// node under itself or one of its descendants is a silent no-op.
func (s *Snapshot) Move(id, parentID string, position int) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || n.IsDeleted() {
		return s, nil
	}
	if parentID != RootID {
		p := s.nodes[parentID]
		if p == nil || p.IsDeleted() {
			return s, nil
		}
	}
	if id == parentID || s.isDescendant(parentID, id) {
		return s, nil
	}

	next := s.clone()
	oldParent := next.parents[id]
	next.removeChild(oldParent, id)
	next.densify(oldParent)
	next.insertChild(parentID, id, position)

	return next, &Intent{
		Scope:      ScopeMove,
		NodeID:     id,
		ParentID:   parentID,
		Position:   next.nodes[id].SortOrder,
		OrderedIDs: next.activeIDs(parentID),
	}
}

// isDescendant reports whether candidate sits somewhere below ancestor.
func (s *Snapshot) isDescendant(candidate, ancestor string) bool {
	for cur := candidate; cur != RootID; cur = s.parents[cur] {
		if s.parents[cur] == ancestor {
			return true
		}
	}
	return false
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
