package testutil

import (
	"time"

	"github.com/google/uuid"

	"trama/internal/domain"
	"trama/internal/repository"
)

// NewTestProject builds a persisted-ready project row.
func NewTestProject(name string) *repository.Project {
	now := time.Now().UTC()
	return &repository.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Node options
type NodeOption func(*domain.Node)

func WithStatus(status string) NodeOption {
	return func(n *domain.Node) {
		n.Status = status
	}
}

func WithPriority(priority string) NodeOption {
	return func(n *domain.Node) {
		n.Priority = priority
	}
}

func WithType(t string) NodeOption {
	return func(n *domain.Node) {
		n.Type = t
	}
}

func WithStartDate(d time.Time) NodeOption {
	return func(n *domain.Node) {
		n.StartDate = &d
	}
}

func WithEndDate(d time.Time) NodeOption {
	return func(n *domain.Node) {
		n.EndDate = &d
	}
}

func WithProgress(p float64) NodeOption {
	return func(n *domain.Node) {
		n.Progress = &p
	}
}

func WithSortOrder(i int) NodeOption {
	return func(n *domain.Node) {
		n.SortOrder = i
	}
}

func WithService(catalogID string, multiplier float64) NodeOption {
	return func(n *domain.Node) {
		n.ServiceCatalogID = catalogID
		n.ServiceMultiplier = &multiplier
	}
}

func WithResponsible(m *domain.Member) NodeOption {
	return func(n *domain.Node) {
		n.Responsible = m
	}
}

func WithResponsibleName(name string) NodeOption {
	return func(n *domain.Node) {
		n.ResponsibleName = name
	}
}

func WithDependencies(ids ...string) NodeOption {
	return func(n *domain.Node) {
		n.Dependencies = ids
	}
}

func WithDeletedAt(t time.Time) NodeOption {
	return func(n *domain.Node) {
		n.DeletedAt = &t
	}
}

// NewTestNode builds a task node with sane defaults.
func NewTestNode(projectID, title string, opts ...NodeOption) *domain.Node {
	now := time.Now().UTC()
	n := &domain.Node{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Type:      "task",
		Status:    "BACKLOG",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestMember builds a directory member.
func NewTestMember(name, email string) *domain.Member {
	return &domain.Member{
		MembershipID: uuid.New().String(),
		UserID:       uuid.New().String(),
		Name:         name,
		Email:        email,
	}
}

// NewTestServiceItem builds a rate-catalog entry.
func NewTestServiceItem(name string, baseHours float64) *domain.ServiceItem {
	now := time.Now().UTC()
	return &domain.ServiceItem{
		ID:        uuid.New().String(),
		Name:      name,
		BaseHours: baseHours,
		Rate:      100,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestComment builds a project comment.
func NewTestComment(projectID, author, body string) *domain.Comment {
	return &domain.Comment{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		AuthorName: author,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
}
