package analytics

import (
	"math"
	"time"

	"trama/internal/domain"
)

// hoursResolver looks up planned hours for a node: the explicit override on
// the node wins, otherwise catalog base hours scaled by the node's
// multiplier (missing multiplier means 1).
type hoursResolver struct {
	baseHours map[string]float64
}

func newHoursResolver(catalog []domain.ServiceItem) *hoursResolver {
	base := make(map[string]float64, len(catalog))
	for _, item := range catalog {
		base[item.ID] = item.BaseHours
	}
	return &hoursResolver{baseHours: base}
}

func (r *hoursResolver) plannedHours(n *domain.Node) float64 {
	if n.ServiceHours != nil && isFinite(*n.ServiceHours) {
		return math.Max(0, *n.ServiceHours)
	}
	base, ok := r.baseHours[n.ServiceCatalogID]
	if !ok || n.ServiceCatalogID == "" {
		return 0
	}
	mult := 1.0
	if n.ServiceMultiplier != nil && isFinite(*n.ServiceMultiplier) {
		mult = *n.ServiceMultiplier
	}
	return math.Max(0, base*mult)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func totalPlannedHours(tasks []*domain.Node, r *hoursResolver) float64 {
	total := 0.0
	for _, n := range tasks {
		total += r.plannedHours(n)
	}
	return total
}

// hoursForPeriod sums planned hours prorated onto [periodStart, periodEnd).
// A task's hours spread evenly over its scheduled days; only the fraction
// of days overlapping the period counts. A task with a single known date is
// treated as a one-day task on that date.
func hoursForPeriod(tasks []*domain.Node, r *hoursResolver, periodStart, periodEnd time.Time) float64 {
	total := 0.0
	for _, n := range tasks {
		hours := r.plannedHours(n)
		if hours <= 0 {
			continue
		}
		start, end, ok := scheduledRange(n)
		if !ok {
			continue
		}
		spanDays := domain.DiffDaysInclusive(start, end)
		if spanDays <= 0 {
			continue
		}
		overlap := overlapDays(start, end, periodStart, periodEnd)
		if overlap <= 0 {
			continue
		}
		total += hours * float64(overlap) / float64(spanDays)
	}
	return total
}

// scheduledRange normalizes a node's dates into an ordered day range.
// Either date alone stands in for the other; reversed dates are swapped.
func scheduledRange(n *domain.Node) (start, end time.Time, ok bool) {
	s, e := n.StartDate, n.EndDate
	if s == nil && e == nil {
		return time.Time{}, time.Time{}, false
	}
	if s == nil {
		s = e
	}
	if e == nil {
		e = s
	}
	start = domain.StartOfDay(*s)
	end = domain.StartOfDay(*e)
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

// overlapDays counts the whole days of the inclusive task range that fall
// inside the half-open period.
func overlapDays(taskStart, taskEnd, periodStart, periodEnd time.Time) int {
	lo := taskStart
	if periodStart.After(lo) {
		lo = periodStart
	}
	hi := domain.AddDays(taskEnd, 1)
	if periodEnd.Before(hi) {
		hi = periodEnd
	}
	if !hi.After(lo) {
		return 0
	}
	return int(hi.Sub(lo).Hours() / 24)
}
