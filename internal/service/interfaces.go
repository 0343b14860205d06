package service

import (
	"context"

	"trama/internal/analytics"
	"trama/internal/domain"
	"trama/internal/repository"
	"trama/internal/wbs"
)

// TreeService owns the in-memory WBS snapshot for one project and commits
// every mutation through the persistence layer. Mutations are optimistic:
// the engine produces the next snapshot, the service commits the intent in
// a transaction, and on failure the previous snapshot stays current.
type TreeService interface {
	Load(ctx context.Context, projectID string) error
	ProjectID() string

	Node(id string) *domain.Node
	Rows(expanded map[string]bool) []wbs.Row
	AllRows() []wbs.Row
	Progress() map[string]int
	Dependencies(id string) []wbs.DependencyRef
	Trash() []*domain.Node

	CreateNode(ctx context.Context, parentID string, n *domain.Node) (*domain.Node, error)
	UpdateNode(ctx context.Context, id string, changes wbs.Update) error
	BulkUpdateStatus(ctx context.Context, ids []string, status string) (int, error)

	Reorder(ctx context.Context, id string, targetIndex int) error
	Promote(ctx context.Context, id string) error
	// Demote returns the id of the new parent the UI should expand so the
	// moved node stays visible; empty when the call was a no-op.
	Demote(ctx context.Context, id string) (string, error)
	Move(ctx context.Context, id, parentID string, position int) error

	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PurgeTrash(ctx context.Context, olderThanDays int) (int, error)

	AddDependency(ctx context.Context, nodeID, predecessorID string) error
	RemoveDependency(ctx context.Context, nodeID, predecessorID string) error
}

// AnalyticsService derives dashboard reports. Refreshes may be issued
// faster than they complete; a refresh that finishes after a newer one
// started never overwrites the cached report.
type AnalyticsService interface {
	Refresh(ctx context.Context, scope string) (*analytics.Report, error)
	Latest() *analytics.Report
}

type ProjectService interface {
	Create(ctx context.Context, name string) (*repository.Project, error)
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context) ([]*repository.Project, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type CatalogService interface {
	Create(ctx context.Context, name string, baseHours, rate float64) (*domain.ServiceItem, error)
	GetByID(ctx context.Context, id string) (*domain.ServiceItem, error)
	List(ctx context.Context) ([]domain.ServiceItem, error)
	Update(ctx context.Context, item *domain.ServiceItem) error
	Delete(ctx context.Context, id string) error
}

type MemberService interface {
	Upsert(ctx context.Context, m *domain.Member) error
	List(ctx context.Context) ([]domain.Member, error)
	Delete(ctx context.Context, membershipID string) error
}

type CommentService interface {
	Post(ctx context.Context, projectID, author, body string) (*domain.Comment, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Comment, error)
}
