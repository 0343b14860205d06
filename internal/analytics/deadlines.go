package analytics

import (
	"sort"
	"strings"
	"time"

	"trama/internal/domain"
)

// Deadline is one upcoming-deadlines row.
type Deadline struct {
	NodeID      string
	Title       string
	ProjectID   string
	ProjectName string
	Due         time.Time
	Late        bool
	Priority    domain.Priority
	Done        bool
}

// deadlineItems builds one dated row per task carrying an end date, sorted
// soonest first. Completed tasks stay on the board, marked as done.
func deadlineItems(tasks []*domain.Node, projectNames map[string]string, scope string, today time.Time) []Deadline {
	items := make([]Deadline, 0, len(tasks))
	for _, n := range tasks {
		if n.EndDate == nil {
			continue
		}
		due := domain.StartOfDay(*n.EndDate)
		name := n.ProjectName
		if name == "" {
			name = projectNames[n.ProjectID]
		}
		items = append(items, Deadline{
			NodeID:      n.ID,
			Title:       n.Title,
			ProjectID:   n.ProjectID,
			ProjectName: name,
			Due:         due,
			Late:        due.Before(today) && !domain.IsDone(n.Status),
			Priority:    domain.NormalizePriority(n.Priority),
			Done:        domain.IsDone(n.Status),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Due.Before(items[j].Due)
	})
	return items
}

// deadlineLimit caps the upcoming-deadlines board.
const deadlineLimit = 4

// upcomingDeadlines returns up to four deadline rows, soonest first. In the
// all-projects scope each project first contributes its soonest row, then
// the remaining slots are filled from the overall sorted list: a single
// busy project cannot crowd out the rest of the portfolio, but a short
// portfolio still fills the board.
func upcomingDeadlines(items []Deadline, scope string) []Deadline {
	if scope != ScopeAllProjects {
		return capDeadlines(items)
	}

	seen := make(map[string]bool)
	picked := make(map[string]bool)
	out := make([]Deadline, 0, len(items))
	for _, d := range items {
		key := deadlineProjectKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		picked[d.NodeID] = true
		out = append(out, d)
	}
	for _, d := range items {
		if !picked[d.NodeID] {
			out = append(out, d)
		}
	}
	return capDeadlines(out)
}

// deadlineProjectKey groups rows by project, tolerating nodes that carry a
// name but no id; a row with neither groups by itself.
func deadlineProjectKey(d Deadline) string {
	return strings.ToLower(domain.CoalesceStr(d.ProjectID, d.ProjectName, d.NodeID))
}

func capDeadlines(items []Deadline) []Deadline {
	if len(items) > deadlineLimit {
		items = items[:deadlineLimit]
	}
	return append([]Deadline(nil), items...)
}

// deadlinesInMonth returns every deadline falling inside the reference
// date's calendar month, completed or not.
func deadlinesInMonth(items []Deadline, today time.Time) []Deadline {
	out := make([]Deadline, 0)
	for _, d := range items {
		if d.Due.Year() == today.Year() && d.Due.Month() == today.Month() {
			out = append(out, d)
		}
	}
	return out
}
