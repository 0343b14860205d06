// Package analytics derives dashboard metrics from a flattened WBS
// snapshot plus a flat comment/activity feed. It is read-only: every
// function here is a pure derivation over the input, unaffected by UI
// state such as expand/collapse or filters.
package analytics

import (
	"math"
	"time"

	"trama/internal/domain"
)

// ScopeAllProjects selects cross-project aggregation (per-project
// deduplication of deadlines, portfolio-wide sums).
const ScopeAllProjects = "all"

// Totals is the basic task census. When an authoritative pre-aggregated
// count is available upstream it is preferred over walking the tree.
type Totals struct {
	Total      int
	Done       int
	InProgress int
}

// Input is everything one aggregation run consumes. Nodes is the full
// flattened snapshot including soft-deleted entries; classification filters
// them out.
type Input struct {
	Nodes    []*domain.Node
	Catalog  []domain.ServiceItem
	Comments []domain.Comment

	// ExternalTotals, when non-nil and non-empty, overrides the derived
	// task census (portfolio endpoints are authoritative).
	ExternalTotals *Totals

	// Scope is a project id or ScopeAllProjects.
	Scope        string
	ProjectNames map[string]string

	Now time.Time
}

// Report is the full dashboard metric set for one snapshot.
type Report struct {
	Totals                   Totals
	CompletionRate           int
	CompletionRateWeekAgo    int
	CompletionStreak         int
	CompletionStreakPrevWeek int
	OverdueTasks             int
	OverdueTasksPrevWeek     int

	PlannedHoursTotal     float64
	PlannedHoursThisWeek  float64
	PlannedHoursPrevWeek  float64
	PlannedHoursThisMonth float64
	PlannedHoursPrevMonth float64

	TasksDoneThisMonth int
	TasksDonePrevMonth int

	Team               []MemberStats
	UpcomingDeadlines  []Deadline
	DeadlinesThisMonth []Deadline

	StatusHistogram   []StatusCount
	PriorityHistogram []PriorityCount
	Weekly            Series
	Monthly           Series
	Quarterly         Series

	RecentActivities []Activity
}

// StatusCount is one slice of the status histogram.
type StatusCount struct {
	Status domain.Status
	Count  int
}

// PriorityCount is one slice of the priority histogram.
type PriorityCount struct {
	Priority domain.Priority
	Count    int
}

// Aggregate runs every derivation over the input and assembles the report.
func Aggregate(in Input) Report {
	tasks := TaskNodes(in.Nodes)
	today := domain.StartOfDay(in.Now)
	weekAgo := domain.AddDays(today, -7)

	totals := deriveTotals(in.ExternalTotals, tasks)
	doneDays := completionDaySet(tasks)

	r := Report{
		Totals:                   totals,
		CompletionRate:           ratePct(totals.Done, totals.Total),
		CompletionRateWeekAgo:    ratePct(countCompletedBy(tasks, weekAgo), totals.Total),
		CompletionStreak:         streak(doneDays, today),
		CompletionStreakPrevWeek: streak(doneDays, weekAgo),
		OverdueTasks:             countOverdue(tasks, today),
		OverdueTasksPrevWeek:     countOverdue(tasks, weekAgo),
		TasksDoneThisMonth:       0,
		TasksDonePrevMonth:       0,
	}

	r.TasksDoneThisMonth, r.TasksDonePrevMonth = doneByMonth(tasks, today)

	hours := newHoursResolver(in.Catalog)
	r.PlannedHoursTotal = round1(totalPlannedHours(tasks, hours))
	weekStart := startOfWeek(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	r.PlannedHoursThisWeek = round1(hoursForPeriod(tasks, hours, weekStart, domain.AddDays(weekStart, 7)))
	r.PlannedHoursPrevWeek = round1(hoursForPeriod(tasks, hours, domain.AddDays(weekStart, -7), weekStart))
	r.PlannedHoursThisMonth = round1(hoursForPeriod(tasks, hours, monthStart, monthStart.AddDate(0, 1, 0)))
	r.PlannedHoursPrevMonth = round1(hoursForPeriod(tasks, hours, monthStart.AddDate(0, -1, 0), monthStart))

	r.Team = TeamPerformance(tasks)
	deadlines := deadlineItems(tasks, in.ProjectNames, in.Scope, today)
	r.UpcomingDeadlines = upcomingDeadlines(deadlines, in.Scope)
	r.DeadlinesThisMonth = deadlinesInMonth(deadlines, today)

	r.StatusHistogram = statusHistogram(tasks)
	r.PriorityHistogram = priorityHistogram(tasks)
	r.Weekly = buildSeries(in.Nodes, weeklyBuckets(today))
	r.Monthly = buildSeries(in.Nodes, fourWeekBuckets(today))
	r.Quarterly = buildSeries(in.Nodes, quarterlyBuckets(today))

	r.RecentActivities = RecentActivities(in.Comments, tasks)
	return r
}

// deriveTotals prefers the authoritative external census when it carries
// any data at all; otherwise it counts task-like nodes.
func deriveTotals(external *Totals, tasks []*domain.Node) Totals {
	if external != nil && external.Total > 0 {
		return *external
	}
	t := Totals{Total: len(tasks)}
	for _, n := range tasks {
		switch domain.NormalizeStatus(n.Status) {
		case domain.StatusDone:
			t.Done++
		case domain.StatusInProgress:
			t.InProgress++
		}
	}
	return t
}

func ratePct(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CompletionTime returns the timestamp a done node counts as completed at:
// the last update when known, else the explicit completion stamp, else the
// end date.
func CompletionTime(n *domain.Node) *time.Time {
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		return &t
	}
	if n.CompletedAt != nil {
		return n.CompletedAt
	}
	return n.EndDate
}

func completionDaySet(tasks []*domain.Node) map[string]bool {
	days := make(map[string]bool)
	for _, n := range tasks {
		if !domain.IsDone(n.Status) {
			continue
		}
		if t := CompletionTime(n); t != nil {
			days[domain.StartOfDay(*t).Format("2006-01-02")] = true
		}
	}
	return days
}

func countCompletedBy(tasks []*domain.Node, reference time.Time) int {
	count := 0
	for _, n := range tasks {
		if !domain.IsDone(n.Status) {
			continue
		}
		if t := CompletionTime(n); t != nil && !domain.StartOfDay(*t).After(reference) {
			count++
		}
	}
	return count
}

// streak counts the consecutive run of calendar days, walking backward from
// the reference date, on which at least one task was completed.
func streak(doneDays map[string]bool, reference time.Time) int {
	n := 0
	for cursor := domain.StartOfDay(reference); doneDays[cursor.Format("2006-01-02")]; cursor = domain.AddDays(cursor, -1) {
		n++
	}
	return n
}

// countOverdue counts tasks whose end date lies strictly before the
// reference and which were not already completed on or before it. This is
// point-in-time overdue: a task completed late stops counting once done.
func countOverdue(tasks []*domain.Node, reference time.Time) int {
	count := 0
	for _, n := range tasks {
		if n.EndDate == nil {
			continue
		}
		if !domain.StartOfDay(*n.EndDate).Before(reference) {
			continue
		}
		if domain.IsDone(n.Status) {
			if t := CompletionTime(n); t != nil && !domain.StartOfDay(*t).After(reference) {
				continue
			}
		}
		count++
	}
	return count
}

func doneByMonth(tasks []*domain.Node, today time.Time) (current, previous int) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	for _, n := range tasks {
		if !domain.IsDone(n.Status) {
			continue
		}
		t := CompletionTime(n)
		if t == nil {
			continue
		}
		done := domain.StartOfDay(*t)
		switch {
		case !done.Before(monthStart) && done.Before(nextMonthStart):
			current++
		case !done.Before(prevMonthStart) && done.Before(monthStart):
			previous++
		}
	}
	return current, previous
}

// startOfWeek returns the Monday of the reference date's week.
func startOfWeek(today time.Time) time.Time {
	mondayIndex := (int(today.Weekday()) + 6) % 7
	return domain.AddDays(today, -mondayIndex)
}

func statusHistogram(tasks []*domain.Node) []StatusCount {
	counts := make(map[domain.Status]int, len(domain.StatusOrder))
	for _, n := range tasks {
		counts[domain.NormalizeStatus(n.Status)]++
	}
	out := make([]StatusCount, 0, len(domain.StatusOrder))
	for _, s := range domain.StatusOrder {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

func priorityHistogram(tasks []*domain.Node) []PriorityCount {
	counts := make(map[domain.Priority]int, len(domain.PriorityOrder))
	for _, n := range tasks {
		counts[domain.NormalizePriority(n.Priority)]++
	}
	out := make([]PriorityCount, 0, len(domain.PriorityOrder))
	for _, p := range domain.PriorityOrder {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}
