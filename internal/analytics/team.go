package analytics

import (
	"math"
	"sort"
	"strings"

	"trama/internal/domain"
)

// UnassignedBucket is the display label for tasks with no resolvable
// responsible person.
const UnassignedBucket = "Sem responsável"

// MemberStats is one row of the team performance board.
type MemberStats struct {
	Name       string
	Done       int
	InProgress int
	Total      int
	Percent    int
}

// TeamPerformance groups tasks by their resolved responsible name and
// returns the top four contributors. Grouping is case-insensitive; the
// first spelling seen wins as the display name. The unassigned bucket only
// appears when no named contributor exists at all.
func TeamPerformance(tasks []*domain.Node) []MemberStats {
	type bucket struct {
		stats MemberStats
		order int
	}
	buckets := make(map[string]*bucket)
	named := 0

	for _, n := range tasks {
		name := strings.TrimSpace(domain.ResolveResponsibleName(n))
		key := strings.ToLower(name)
		if name == "" {
			key = ""
		}
		b, ok := buckets[key]
		if !ok {
			display := name
			if name == "" {
				display = UnassignedBucket
			}
			b = &bucket{stats: MemberStats{Name: display}, order: len(buckets)}
			buckets[key] = b
			if name != "" {
				named++
			}
		}
		b.stats.Total++
		switch domain.NormalizeStatus(n.Status) {
		case domain.StatusDone:
			b.stats.Done++
		case domain.StatusInProgress:
			b.stats.InProgress++
		}
	}

	rows := make([]bucket, 0, len(buckets))
	for key, b := range buckets {
		if key == "" && named > 0 {
			continue
		}
		if b.stats.Total > 0 {
			b.stats.Percent = int(math.Round(float64(b.stats.Done) / float64(b.stats.Total) * 100))
		}
		rows = append(rows, *b)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].stats, rows[j].stats
		if a.Done != b.Done {
			return a.Done > b.Done
		}
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return rows[i].order < rows[j].order
	})

	if len(rows) > 4 {
		rows = rows[:4]
	}
	out := make([]MemberStats, len(rows))
	for i, b := range rows {
		out[i] = b.stats
	}
	return out
}
