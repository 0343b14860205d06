package analytics

import (
	"fmt"
	"time"

	"trama/internal/domain"
)

// SeriesPoint is one bucket of a created-versus-completed series.
type SeriesPoint struct {
	Label     string
	Created   int
	Completed int
}

// Series is a created-versus-completed comparison over consecutive time
// buckets plus its overall efficiency (completed as a percentage of
// created).
type Series struct {
	Points     []SeriesPoint
	Efficiency int
}

// bucketSpec is one half-open time bucket [Start, End).
type bucketSpec struct {
	Label string
	Start time.Time
	End   time.Time
}

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var monthLabels = [13]string{"", "Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// weeklyBuckets covers the current week, Monday through Sunday, one bucket
// per day.
func weeklyBuckets(today time.Time) []bucketSpec {
	start := startOfWeek(today)
	buckets := make([]bucketSpec, 7)
	for i := range buckets {
		day := domain.AddDays(start, i)
		buckets[i] = bucketSpec{
			Label: weekdayLabels[int(day.Weekday())],
			Start: day,
			End:   domain.AddDays(day, 1),
		}
	}
	return buckets
}

// fourWeekBuckets covers the last four 7-day windows ending today, oldest
// first.
func fourWeekBuckets(today time.Time) []bucketSpec {
	end := domain.AddDays(today, 1)
	buckets := make([]bucketSpec, 4)
	for i := 0; i < 4; i++ {
		weekEnd := domain.AddDays(end, -7*(3-i))
		buckets[i] = bucketSpec{
			Label: fmt.Sprintf("Sem %d", i+1),
			Start: domain.AddDays(weekEnd, -7),
			End:   weekEnd,
		}
	}
	return buckets
}

// quarterlyBuckets covers the current calendar month and the two before it.
func quarterlyBuckets(today time.Time) []bucketSpec {
	buckets := make([]bucketSpec, 3)
	for i := 0; i < 3; i++ {
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i-2, 0)
		buckets[i] = bucketSpec{
			Label: monthLabels[int(start.Month())],
			Start: start,
			End:   start.AddDate(0, 1, 0),
		}
	}
	return buckets
}

// buildSeries counts node creations and completions into the buckets.
// Classification is deliberately loose here: any non-deleted node with a
// creation stamp participates, matching the census the totals use when no
// external count overrides them.
func buildSeries(nodes []*domain.Node, buckets []bucketSpec) Series {
	points := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		points[i].Label = b.Label
	}
	createdTotal, completedTotal := 0, 0
	for _, n := range nodes {
		if n == nil || n.IsDeleted() {
			continue
		}
		if !n.CreatedAt.IsZero() {
			if i := bucketIndex(buckets, n.CreatedAt); i >= 0 {
				points[i].Created++
				createdTotal++
			}
		}
		if !domain.IsDone(n.Status) {
			continue
		}
		if t := CompletionTime(n); t != nil {
			if i := bucketIndex(buckets, *t); i >= 0 {
				points[i].Completed++
				completedTotal++
			}
		}
	}
	s := Series{Points: points}
	if createdTotal > 0 {
		s.Efficiency = ratePct(completedTotal, createdTotal)
	} else if completedTotal > 0 {
		s.Efficiency = 100
	}
	return s
}

func bucketIndex(buckets []bucketSpec, t time.Time) int {
	day := domain.StartOfDay(t)
	for i, b := range buckets {
		if !day.Before(b.Start) && day.Before(b.End) {
			return i
		}
	}
	return -1
}
