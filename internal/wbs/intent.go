package wbs

// Scope identifies the kind of mutation an Intent asks the persistence
// collaborator to commit.
type Scope string

const (
	ScopeCreate     Scope = "create"
	ScopeUpdate     Scope = "update"
	ScopeReorder    Scope = "reorder"
	ScopeMove       Scope = "move"
	ScopeSoftDelete Scope = "softDelete"
	ScopeRestore    Scope = "restore"
	ScopeDependency Scope = "dependency"
)

// Intent is the persistence contract of a mutation: what changed and, for
// ordering mutations, the exact sibling ids in their new order. The engine
// never talks to storage itself; the caller commits the intent and rolls
// back to the previous snapshot when the commit fails.
type Intent struct {
	Scope    Scope
	NodeID   string
	ParentID string // new parent (RootID for root level)
	Position int    // new index within the active sibling list

	// OrderedIDs lists the active siblings of ParentID in their new order;
	// this is what reorder/move persistence writes back.
	OrderedIDs []string

	// Expand names a node the UI must mark expanded so the moved node stays
	// visible (set by Demote).
	Expand string

	// Changes carries the field updates for ScopeUpdate intents.
	Changes *Update
}
