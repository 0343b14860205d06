package repository

import (
	"context"
	"time"

	"trama/internal/domain"
	"trama/internal/wbs"
)

// Project is the top-level container a WBS tree hangs from.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectRepo interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// NodeRepo persists WBS nodes. Listings return flat entries (node plus
// parent id) that wbs.Build assembles into a snapshot; soft-deleted rows
// are included so the trash survives restarts.
type NodeRepo interface {
	Create(ctx context.Context, e wbs.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	ListByProject(ctx context.Context, projectID string) ([]wbs.Entry, error)
	ListAll(ctx context.Context) ([]wbs.Entry, error)
	Update(ctx context.Context, e wbs.Entry) error
	UpdatePlacement(ctx context.Context, id, parentID string, sortOrder int) error
	Delete(ctx context.Context, id string) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type ServiceCatalogRepo interface {
	Create(ctx context.Context, item *domain.ServiceItem) error
	GetByID(ctx context.Context, id string) (*domain.ServiceItem, error)
	List(ctx context.Context) ([]domain.ServiceItem, error)
	Update(ctx context.Context, item *domain.ServiceItem) error
	Delete(ctx context.Context, id string) error
}

type MemberRepo interface {
	Upsert(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, membershipID string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Delete(ctx context.Context, membershipID string) error
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Comment, error)
}
