package wbs

import (
	"math"
	"time"

	"trama/internal/domain"
)

// Update is a partial field change set. Nil pointers mean "leave as is";
// date fields take the upstream string form, with "" clearing the value.
type Update struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Type        *string

	StartDate *string
	EndDate   *string

	// DurationDays sets the inclusive calendar duration directly; end date
	// and estimate hours are re-derived from it.
	DurationDays *int

	EstimateHours     *float64
	ServiceCatalogID  *string
	ServiceMultiplier *float64
	ServiceHours      *float64
	Progress          *float64

	Dependencies *[]string

	Responsible      *domain.Member
	ClearResponsible bool
}

// Apply merges the update into the node by shallow field replacement and
// runs the reciprocal date/duration/hours derivation. The three fields are
// kept consistent by recompute-on-write: changing a date recomputes the
// estimate; setting a duration recomputes the end date (when a start date
// exists) and the estimate.
func (u *Update) apply(n *domain.Node, now time.Time) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Description != nil {
		n.Description = *u.Description
	}
	if u.Status != nil {
		n.Status = *u.Status
		if domain.IsDone(n.Status) && n.CompletedAt == nil {
			at := now
			n.CompletedAt = &at
		}
	}
	if u.Priority != nil {
		n.Priority = *u.Priority
	}
	if u.Type != nil {
		n.Type = *u.Type
	}

	dateChanged := false
	if u.StartDate != nil {
		n.StartDate = domain.ParseDate(*u.StartDate)
		dateChanged = true
	}
	if u.EndDate != nil {
		n.EndDate = domain.ParseDate(*u.EndDate)
		dateChanged = true
	}
	if dateChanged {
		if d := domain.DurationDays(n.StartDate, n.EndDate); d != nil && *d > 0 {
			hours := float64(*d * domain.WorkdayHours)
			n.EstimateHours = &hours
		}
	}

	if u.DurationDays != nil {
		days := *u.DurationDays
		if days >= 1 {
			if n.StartDate != nil {
				end := domain.AddDays(*n.StartDate, days-1)
				n.EndDate = &end
			}
			hours := float64(days * domain.WorkdayHours)
			n.EstimateHours = &hours
		}
	}

	if u.EstimateHours != nil {
		n.EstimateHours = sanitizeFloat(*u.EstimateHours)
	}
	if u.ServiceCatalogID != nil {
		n.ServiceCatalogID = *u.ServiceCatalogID
	}
	if u.ServiceMultiplier != nil {
		n.ServiceMultiplier = sanitizeFloat(*u.ServiceMultiplier)
	}
	if u.ServiceHours != nil {
		n.ServiceHours = sanitizeFloat(*u.ServiceHours)
	}
	if u.Progress != nil {
		n.Progress = sanitizeFloat(*u.Progress)
	}
	if u.Dependencies != nil {
		n.Dependencies = dedupeIDs(*u.Dependencies, n.ID)
	}
	if u.ClearResponsible {
		n.Responsible = nil
	} else if u.Responsible != nil {
		r := *u.Responsible
		n.Responsible = &r
	}

	n.UpdatedAt = now
}

// sanitizeFloat drops non-finite values, degrading them to "not set".
func sanitizeFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// dedupeIDs removes duplicates and the node's own id from a dependency
// list, preserving order.
func dedupeIDs(ids []string, self string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == self || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// UpdateNode applies a partial update to the node, returning the next
// snapshot and the update intent. Unknown ids are silent no-ops.
func (s *Snapshot) UpdateNode(id string, changes Update, now time.Time) (*Snapshot, *Intent) {
	if s.nodes[id] == nil {
		return s, nil
	}
	next := s.clone()
	c := next.mutableNode(id)
	changes.apply(c, now)
	return next, &Intent{
		Scope:   ScopeUpdate,
		NodeID:  id,
		Changes: &changes,
	}
}
