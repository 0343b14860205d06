package domain

import "time"

// Member identifies a team member referenced by a node. It is a weak
// reference: the membership may no longer exist in the directory.
type Member struct {
	MembershipID string
	UserID       string
	Name         string
	Email        string
}

// Node is one WBS entry (phase, task or subtask). Containment is the tree:
// a node's position inside its parent's child list is its only notion of
// parent, so cycles cannot occur by construction. Status and Priority hold
// the raw upstream values and are always resolved through NormalizeStatus /
// NormalizePriority before use.
type Node struct {
	ID          string
	ProjectID   string
	ProjectName string
	Title       string
	Description string
	Type        string // free-text hint (task/phase/...), analytics only
	Code        string // explicit external WBS code, display override only
	Status      string
	Priority    string

	StartDate     *time.Time
	EndDate       *time.Time
	EstimateHours *float64

	ServiceCatalogID  string
	ServiceMultiplier *float64
	ServiceHours      *float64

	Progress *float64 // explicit 0-100; nil means derive from children

	Dependencies []string // predecessor node ids, may dangle

	Responsible     *Member
	Owner           *Member
	ResponsibleName string
	OwnerID         string

	SortOrder int
	DeletedAt *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// IsDeleted reports whether the node is soft-deleted.
func (n *Node) IsDeleted() bool { return n.DeletedAt != nil }

// Clone returns a deep copy of the node. Pointer fields and the dependency
// slice are duplicated so the copy can be mutated independently.
func (n *Node) Clone() *Node {
	c := *n
	c.StartDate = cloneTime(n.StartDate)
	c.EndDate = cloneTime(n.EndDate)
	c.DeletedAt = cloneTime(n.DeletedAt)
	c.CompletedAt = cloneTime(n.CompletedAt)
	c.EstimateHours = cloneFloat(n.EstimateHours)
	c.ServiceMultiplier = cloneFloat(n.ServiceMultiplier)
	c.ServiceHours = cloneFloat(n.ServiceHours)
	c.Progress = cloneFloat(n.Progress)
	if n.Dependencies != nil {
		c.Dependencies = append([]string(nil), n.Dependencies...)
	}
	if n.Responsible != nil {
		r := *n.Responsible
		c.Responsible = &r
	}
	if n.Owner != nil {
		o := *n.Owner
		c.Owner = &o
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// ServiceItem is one rate-catalog entry. A node linked to an item derives
// its planned hours as BaseHours * ServiceMultiplier unless ServiceHours is
// set explicitly on the node.
type ServiceItem struct {
	ID        string
	Name      string
	BaseHours float64
	Rate      float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is one entry of the flat activity/comment feed consumed by the
// analytics aggregator.
type Comment struct {
	ID         string
	ProjectID  string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}
