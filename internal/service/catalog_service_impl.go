package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trama/internal/domain"
	"trama/internal/repository"
)

type catalogService struct {
	catalog repository.ServiceCatalogRepo
}

func NewCatalogService(catalog repository.ServiceCatalogRepo) CatalogService {
	return &catalogService{catalog: catalog}
}

func (s *catalogService) Create(ctx context.Context, name string, baseHours, rate float64) (*domain.ServiceItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if baseHours < 0 {
		return nil, fmt.Errorf("base hours must not be negative")
	}
	now := time.Now().UTC()
	item := &domain.ServiceItem{
		ID:        uuid.New().String(),
		Name:      name,
		BaseHours: baseHours,
		Rate:      rate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.catalog.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*domain.ServiceItem, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *catalogService) List(ctx context.Context) ([]domain.ServiceItem, error) {
	return s.catalog.List(ctx)
}

func (s *catalogService) Update(ctx context.Context, item *domain.ServiceItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("service name is required")
	}
	item.UpdatedAt = time.Now().UTC()
	return s.catalog.Update(ctx, item)
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	return s.catalog.Delete(ctx, id)
}
