package wbs

import (
	"strings"
	"time"

	"trama/internal/domain"
)

// Filter is the compound row predicate of the tree view. Zero values mean
// "not active"; all active sub-filters must pass. Sub-filters are evaluated
// cheapest-first so the text scan only runs on rows that survived the
// equality checks.
type Filter struct {
	Status      *domain.Status // nil = ALL
	ServiceID   string
	OwnerID     string
	OverdueOnly bool
	Text        string

	// Today anchors the overdue comparison (date-only).
	Today time.Time

	// ServiceNames maps catalog ids to display names for the text match.
	ServiceNames map[string]string
}

// Match reports whether the row passes every active sub-filter.
func (f Filter) Match(row Row) bool {
	n := row.Node

	if f.Status != nil && domain.NormalizeStatus(n.Status) != *f.Status {
		return false
	}
	if f.ServiceID != "" && n.ServiceCatalogID != f.ServiceID {
		return false
	}
	if f.OwnerID != "" && domain.ResolveOwnerID(n) != f.OwnerID {
		return false
	}
	if f.OverdueOnly {
		if n.EndDate == nil {
			return false
		}
		today := domain.StartOfDay(f.Today)
		if !domain.StartOfDay(*n.EndDate).Before(today) {
			return false
		}
		if domain.IsDone(n.Status) {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(f.Text))
	if q == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		row.Code(),
		n.Title,
		domain.NormalizeStatus(n.Status).Label(),
		domain.ResolveResponsibleName(n),
		f.ServiceNames[n.ServiceCatalogID],
	}, " "))
	return strings.Contains(haystack, q)
}

// Apply returns the rows passing the filter, preserving document order.
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}
