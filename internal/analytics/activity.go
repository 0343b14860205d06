package analytics

import (
	"sort"
	"time"

	"trama/internal/domain"
)

// ActivityKind distinguishes feed entry sources.
type ActivityKind string

const (
	ActivityComment ActivityKind = "comment"
	ActivityCreated ActivityKind = "created"
	ActivityUpdated ActivityKind = "updated"
)

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Kind      ActivityKind
	Author    string
	Title     string
	Body      string
	Timestamp time.Time
}

// creationWindow bounds how far UpdatedAt may trail CreatedAt for the two
// stamps to still count as the same creation event.
const creationWindow = 60 * time.Second

// RecentActivities merges the comment feed with per-node change events into
// the five most recent entries. A node whose update stamp sits within a
// minute of its creation stamp reads as newly created rather than edited.
func RecentActivities(comments []domain.Comment, tasks []*domain.Node) []Activity {
	items := make([]Activity, 0, len(comments)+len(tasks))
	for _, c := range comments {
		if c.CreatedAt.IsZero() {
			continue
		}
		items = append(items, Activity{
			Kind:      ActivityComment,
			Author:    c.AuthorName,
			Body:      c.Body,
			Timestamp: c.CreatedAt,
		})
	}
	for _, n := range tasks {
		a, ok := nodeActivity(n)
		if ok {
			items = append(items, a)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > 5 {
		items = items[:5]
	}
	return items
}

func nodeActivity(n *domain.Node) (Activity, bool) {
	author := domain.ResolveResponsibleName(n)
	switch {
	case !n.UpdatedAt.IsZero() && n.UpdatedAt.Sub(n.CreatedAt) > creationWindow:
		return Activity{Kind: ActivityUpdated, Author: author, Title: n.Title, Timestamp: n.UpdatedAt}, true
	case !n.CreatedAt.IsZero():
		return Activity{Kind: ActivityCreated, Author: author, Title: n.Title, Timestamp: n.CreatedAt}, true
	}
	return Activity{}, false
}
