// Package wbs implements the in-memory work-breakdown-structure engine:
// an id-keyed node arena with an ordered containment index, flattening and
// visibility projection, sibling reorder and reparenting, dependency
// maintenance and bottom-up progress derivation.
//
// Snapshots are immutable from the caller's point of view: every mutation
// returns the intended next snapshot plus an Intent describing what must be
// persisted. Committing the intent is the caller's job; on persistence
// failure the caller keeps the previous snapshot (rollback, not retry).
package wbs

import (
	"sort"
	"time"

	"trama/internal/domain"
)

// RootID is the pseudo parent id of root-level nodes in the containment
// index.
const RootID = ""

// Entry pairs a node with its parent id for snapshot construction from a
// flat persistence row set.
type Entry struct {
	Node     *domain.Node
	ParentID string
}

// Snapshot holds one version of the WBS tree: a flat id-keyed arena plus an
// ordered children index. There are no parent pointers on nodes; the index
// is the tree.
type Snapshot struct {
	nodes    map[string]*domain.Node
	children map[string][]string // parent id -> ordered child ids (incl. soft-deleted)
	parents  map[string]string   // child id -> parent id
}

// Build constructs a snapshot from flat entries. Siblings are ordered by
// SortOrder and re-densified; entries referencing a missing parent become
// roots rather than being dropped, since a corrupt node must not hide its
// subtree.
func Build(entries []Entry) *Snapshot {
	s := &Snapshot{
		nodes:    make(map[string]*domain.Node, len(entries)),
		children: make(map[string][]string),
		parents:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Node == nil || e.Node.ID == "" {
			continue
		}
		s.nodes[e.Node.ID] = e.Node
	}
	for _, e := range entries {
		if e.Node == nil || e.Node.ID == "" {
			continue
		}
		parent := e.ParentID
		if parent != RootID {
			if _, ok := s.nodes[parent]; !ok {
				parent = RootID
			}
		}
		s.parents[e.Node.ID] = parent
		s.children[parent] = append(s.children[parent], e.Node.ID)
	}
	for parent := range s.children {
		ids := s.children[parent]
		sort.SliceStable(ids, func(i, j int) bool {
			return s.nodes[ids[i]].SortOrder < s.nodes[ids[j]].SortOrder
		})
		s.densify(parent)
	}
	return s
}

// Get returns the node with the given id, searching active and soft-deleted
// nodes alike, or nil when absent.
func (s *Snapshot) Get(id string) *domain.Node {
	return s.nodes[id]
}

// Len returns the total number of nodes, including soft-deleted ones.
func (s *Snapshot) Len() int { return len(s.nodes) }

// ParentOf returns the parent id of the node, or RootID for root nodes and
// unknown ids.
func (s *Snapshot) ParentOf(id string) string { return s.parents[id] }

// Roots returns the active root-level nodes in order.
func (s *Snapshot) Roots() []*domain.Node { return s.ChildrenOf(RootID) }

// ChildrenOf returns the active (non-soft-deleted) children of the given
// parent in sibling order.
func (s *Snapshot) ChildrenOf(parentID string) []*domain.Node {
	ids := s.children[parentID]
	out := make([]*domain.Node, 0, len(ids))
	for _, id := range ids {
		if n := s.nodes[id]; n != nil && !n.IsDeleted() {
			out = append(out, n)
		}
	}
	return out
}

// SiblingsOf returns the node's parent id and its active sibling list
// (including the node itself). Unknown ids yield an empty list.
func (s *Snapshot) SiblingsOf(id string) (string, []*domain.Node) {
	if _, ok := s.nodes[id]; !ok {
		return RootID, nil
	}
	parent := s.parents[id]
	return parent, s.ChildrenOf(parent)
}

// Deleted returns all soft-deleted nodes, most recently deleted first.
func (s *Snapshot) Deleted() []*domain.Node {
	var out []*domain.Node
	for _, n := range s.nodes {
		if n.IsDeleted() {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeletedAt.After(*out[j].DeletedAt)
	})
	return out
}

// clone returns a copy sharing node pointers; mutations must replace the
// nodes they touch via mutableNode.
func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		nodes:    make(map[string]*domain.Node, len(s.nodes)),
		children: make(map[string][]string, len(s.children)),
		parents:  make(map[string]string, len(s.parents)),
	}
	for id, n := range s.nodes {
		next.nodes[id] = n
	}
	for parent, ids := range s.children {
		next.children[parent] = append([]string(nil), ids...)
	}
	for id, parent := range s.parents {
		next.parents[id] = parent
	}
	return next
}

// mutableNode replaces the stored node with a deep copy and returns it.
func (s *Snapshot) mutableNode(id string) *domain.Node {
	n := s.nodes[id]
	if n == nil {
		return nil
	}
	c := n.Clone()
	s.nodes[id] = c
	return c
}

// densify reassigns SortOrder 0..n-1 over the active siblings of parent.
// Soft-deleted siblings keep their stale SortOrder; it is recomputed on
// restore.
func (s *Snapshot) densify(parentID string) {
	order := 0
	for _, id := range s.children[parentID] {
		n := s.nodes[id]
		if n == nil || n.IsDeleted() {
			continue
		}
		if n.SortOrder != order {
			c := s.mutableNode(id)
			c.SortOrder = order
		}
		order++
	}
}

// activeIDs returns the active sibling ids of parent in order.
func (s *Snapshot) activeIDs(parentID string) []string {
	ids := s.children[parentID]
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := s.nodes[id]; n != nil && !n.IsDeleted() {
			out = append(out, id)
		}
	}
	return out
}

// removeChild deletes id from parent's child list.
func (s *Snapshot) removeChild(parentID, id string) {
	ids := s.children[parentID]
	for i, cid := range ids {
		if cid == id {
			s.children[parentID] = append(ids[:i:i], ids[i+1:]...)
			return
		}
	}
}

// insertChild places id under parent at the given active position. Position
// is clamped to the active sibling count; soft-deleted siblings are kept at
// the tail of the index slice.
func (s *Snapshot) insertChild(parentID, id string, position int) {
	active := s.activeIDs(parentID)
	if position < 0 {
		position = 0
	}
	if position > len(active) {
		position = len(active)
	}

	var rebuilt []string
	inserted := false
	activeSeen := 0
	for _, cid := range s.children[parentID] {
		n := s.nodes[cid]
		if n != nil && !n.IsDeleted() {
			if activeSeen == position && !inserted {
				rebuilt = append(rebuilt, id)
				inserted = true
			}
			activeSeen++
		}
		rebuilt = append(rebuilt, cid)
	}
	if !inserted {
		rebuilt = append(rebuilt, id)
	}
	s.children[parentID] = rebuilt
	s.parents[id] = parentID
	s.densify(parentID)
}

// Create adds a new node under parentID (RootID for a root node),
// appending it at the end of the sibling list. Status defaults to the
// not-started backend code when empty. Returns the next snapshot and the
// create intent; an unknown parent is a silent no-op.
func (s *Snapshot) Create(parentID string, n *domain.Node, now time.Time) (*Snapshot, *Intent) {
	if n == nil || n.ID == "" {
		return s, nil
	}
	if _, exists := s.nodes[n.ID]; exists {
		return s, nil
	}
	if parentID != RootID {
		if p := s.nodes[parentID]; p == nil || p.IsDeleted() {
			return s, nil
		}
	}

	next := s.clone()
	c := n.Clone()
	if c.Status == "" {
		c.Status = domain.StatusNotStarted.BackendCode()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	next.nodes[c.ID] = c
	next.insertChild(parentID, c.ID, len(next.activeIDs(parentID)))

	return next, &Intent{
		Scope:      ScopeCreate,
		NodeID:     c.ID,
		ParentID:   parentID,
		Position:   c.SortOrder,
		OrderedIDs: next.activeIDs(parentID),
	}
}

// SoftDelete marks the node deleted and re-densifies its former sibling
// list. Unknown or already-deleted ids are silent no-ops.
func (s *Snapshot) SoftDelete(id string, now time.Time) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || n.IsDeleted() {
		return s, nil
	}
	next := s.clone()
	c := next.mutableNode(id)
	at := now
	c.DeletedAt = &at
	c.UpdatedAt = now
	parent := next.parents[id]
	next.densify(parent)
	return next, &Intent{
		Scope:      ScopeSoftDelete,
		NodeID:     id,
		ParentID:   parent,
		OrderedIDs: next.activeIDs(parent),
	}
}

// Restore clears the soft-delete marker, returning the node to the tail of
// its former sibling list.
func (s *Snapshot) Restore(id string, now time.Time) (*Snapshot, *Intent) {
	n := s.nodes[id]
	if n == nil || !n.IsDeleted() {
		return s, nil
	}
	next := s.clone()
	parent := next.parents[id]
	c := next.mutableNode(id)
	c.DeletedAt = nil
	c.UpdatedAt = now
	// Move to the end of the index so the restored node appends after the
	// current active siblings.
	next.removeChild(parent, id)
	next.children[parent] = append(next.children[parent], id)
	next.densify(parent)
	return next, &Intent{
		Scope:      ScopeRestore,
		NodeID:     id,
		ParentID:   parent,
		Position:   next.nodes[id].SortOrder,
		OrderedIDs: next.activeIDs(parent),
	}
}
