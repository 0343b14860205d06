package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"trama/internal/db"
	"trama/internal/domain"
	"trama/internal/repository"
	"trama/internal/wbs"
)

type treeService struct {
	nodes    repository.NodeRepo
	uow      db.UnitOfWork
	observer UseCaseObserver

	mu        sync.Mutex
	projectID string
	snap      *wbs.Snapshot
}

// NewTreeService creates a TreeService. The NodeRepo handles reads outside
// transactions; mutations go through the UnitOfWork with tx-scoped repos.
func NewTreeService(nodes repository.NodeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TreeService {
	return &treeService{
		nodes:    nodes,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		snap:     wbs.Build(nil),
	}
}

func (s *treeService) Load(ctx context.Context, projectID string) error {
	entries, err := s.nodes.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project tree: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.snap = wbs.Build(entries)
	return nil
}

func (s *treeService) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

func (s *treeService) Node(id string) *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Get(id)
}

func (s *treeService) Rows(expanded map[string]bool) []wbs.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wbs.Project(s.snap.Flatten(), expanded)
}

func (s *treeService) AllRows() []wbs.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Flatten()
}

func (s *treeService) Progress() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ProgressMap()
}

func (s *treeService) Dependencies(id string) []wbs.DependencyRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ResolveDependencies(id)
}

func (s *treeService) Trash() []*domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Deleted()
}

func (s *treeService) CreateNode(ctx context.Context, parentID string, n *domain.Node) (*domain.Node, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.ProjectID == "" {
		n.ProjectID = s.ProjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Create(parentID, n, time.Now().UTC())
	if err := s.commit(ctx, "create-node", next, intent, map[string]any{"node": n.ID}); err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, fmt.Errorf("creating node: invalid node or parent")
	}
	return next.Get(n.ID), nil
}

func (s *treeService) UpdateNode(ctx context.Context, id string, changes wbs.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.UpdateNode(id, changes, time.Now().UTC())
	return s.commit(ctx, "update-node", next, intent, map[string]any{"node": id})
}

func (s *treeService) BulkUpdateStatus(ctx context.Context, ids []string, status string) (applied int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "bulk-update-status",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"requested": len(ids), "applied": applied},
		})
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cur := s.snap
	var touched []string
	for _, id := range ids {
		next, intent := cur.UpdateNode(id, wbs.Update{Status: &status}, now)
		if intent == nil {
			continue
		}
		cur = next
		touched = append(touched, id)
	}
	if len(touched) == 0 {
		return 0, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		for _, id := range touched {
			entry, ok := cur.EntryOf(id)
			if !ok {
				continue
			}
			if err := txNodes.Update(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.snap = cur
	return len(touched), nil
}

func (s *treeService) Reorder(ctx context.Context, id string, targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Reorder(id, targetIndex)
	return s.commit(ctx, "reorder-node", next, intent, map[string]any{"node": id, "index": targetIndex})
}

func (s *treeService) Promote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Promote(id)
	return s.commit(ctx, "promote-node", next, intent, map[string]any{"node": id})
}

func (s *treeService) Demote(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Demote(id)
	if err := s.commit(ctx, "demote-node", next, intent, map[string]any{"node": id}); err != nil {
		return "", err
	}
	if intent == nil {
		return "", nil
	}
	return intent.Expand, nil
}

func (s *treeService) Move(ctx context.Context, id, parentID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Move(id, parentID, position)
	return s.commit(ctx, "move-node", next, intent, map[string]any{"node": id, "parent": parentID})
}

func (s *treeService) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.SoftDelete(id, time.Now().UTC())
	return s.commit(ctx, "delete-node", next, intent, map[string]any{"node": id})
}

func (s *treeService) Restore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.Restore(id, time.Now().UTC())
	return s.commit(ctx, "restore-node", next, intent, map[string]any{"node": id})
}

func (s *treeService) PurgeTrash(ctx context.Context, olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	purged, err := s.nodes.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		if err := s.Load(ctx, s.ProjectID()); err != nil {
			return purged, err
		}
	}
	return purged, nil
}

func (s *treeService) AddDependency(ctx context.Context, nodeID, predecessorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.AddDependency(nodeID, predecessorID)
	return s.commit(ctx, "add-dependency", next, intent,
		map[string]any{"node": nodeID, "predecessor": predecessorID})
}

func (s *treeService) RemoveDependency(ctx context.Context, nodeID, predecessorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, intent := s.snap.RemoveDependency(nodeID, predecessorID)
	return s.commit(ctx, "remove-dependency", next, intent,
		map[string]any{"node": nodeID, "predecessor": predecessorID})
}

// commit persists an intent transactionally and swaps the snapshot on
// success. A nil intent is the engine saying the mutation was a no-op;
// nothing is written and no event is emitted. Caller must hold s.mu.
func (s *treeService) commit(ctx context.Context, name string, next *wbs.Snapshot, intent *wbs.Intent, fields map[string]any) (err error) {
	if intent == nil {
		return nil
	}
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	prev := s.snap
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)

		switch intent.Scope {
		case wbs.ScopeCreate:
			entry, ok := next.EntryOf(intent.NodeID)
			if !ok {
				return fmt.Errorf("created node %s missing from snapshot", intent.NodeID)
			}
			if err := txNodes.Create(ctx, entry); err != nil {
				return err
			}
		case wbs.ScopeUpdate, wbs.ScopeDependency, wbs.ScopeSoftDelete, wbs.ScopeRestore:
			entry, ok := next.EntryOf(intent.NodeID)
			if !ok {
				return fmt.Errorf("node %s missing from snapshot", intent.NodeID)
			}
			if err := txNodes.Update(ctx, entry); err != nil {
				return err
			}
		}

		// Ordering side effects: every sibling whose position shifted.
		for _, p := range next.PlacementDiff(prev) {
			if p.NodeID == intent.NodeID {
				continue // full row already written above for non-move scopes
			}
			if err := txNodes.UpdatePlacement(ctx, p.NodeID, p.ParentID, p.SortOrder); err != nil {
				return err
			}
		}
		if intent.Scope == wbs.ScopeReorder || intent.Scope == wbs.ScopeMove {
			if entry, ok := next.EntryOf(intent.NodeID); ok {
				if err := txNodes.UpdatePlacement(ctx, intent.NodeID, entry.ParentID, entry.Node.SortOrder); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.snap = next
	return nil
}
