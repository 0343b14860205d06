package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"trama/internal/analytics"
	"trama/internal/domain"
	"trama/internal/repository"
	"trama/internal/wbs"
)

// recentActivityLimit bounds how many comments are pulled for the feed;
// the aggregator trims the merged feed further.
const recentActivityLimit = 50

type analyticsService struct {
	nodes    repository.NodeRepo
	catalog  repository.ServiceCatalogRepo
	comments repository.CommentRepo
	projects repository.ProjectRepo
	observer UseCaseObserver

	generation atomic.Int64

	mu     sync.Mutex
	latest *analytics.Report
}

// NewAnalyticsService creates an AnalyticsService reading directly from
// the repositories. Reports are pure derivations; nothing is written.
func NewAnalyticsService(
	nodes repository.NodeRepo,
	catalog repository.ServiceCatalogRepo,
	comments repository.CommentRepo,
	projects repository.ProjectRepo,
	observers ...UseCaseObserver,
) AnalyticsService {
	return &analyticsService{
		nodes:    nodes,
		catalog:  catalog,
		comments: comments,
		projects: projects,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *analyticsService) Refresh(ctx context.Context, scope string) (report *analytics.Report, err error) {
	token := s.generation.Add(1)
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "refresh-dashboard",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"scope": scope, "superseded": token != s.generation.Load()},
		})
	}()

	in, err := s.gatherInput(ctx, scope)
	if err != nil {
		return nil, err
	}

	r := analytics.Aggregate(in)

	// A refresh that lost the race to a newer one must not clobber the
	// newer result; its report is returned to its own caller and dropped.
	s.mu.Lock()
	if token == s.generation.Load() {
		s.latest = &r
	}
	s.mu.Unlock()
	return &r, nil
}

func (s *analyticsService) Latest() *analytics.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *analyticsService) gatherInput(ctx context.Context, scope string) (analytics.Input, error) {
	var entries []wbs.Entry
	var comments []domain.Comment
	var err error

	if scope == analytics.ScopeAllProjects {
		entries, err = s.nodes.ListAll(ctx)
		if err != nil {
			return analytics.Input{}, err
		}
		comments, err = s.comments.ListRecent(ctx, recentActivityLimit)
	} else {
		entries, err = s.nodes.ListByProject(ctx, scope)
		if err != nil {
			return analytics.Input{}, err
		}
		comments, err = s.comments.ListByProject(ctx, scope, recentActivityLimit)
	}
	if err != nil {
		return analytics.Input{}, err
	}

	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return analytics.Input{}, err
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return analytics.Input{}, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	nodes := make([]*domain.Node, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, e.Node)
	}

	return analytics.Input{
		Nodes:        nodes,
		Catalog:      catalog,
		Comments:     comments,
		Scope:        scope,
		ProjectNames: names,
		Now:          time.Now().UTC(),
	}, nil
}
