package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/domain"
	"trama/internal/repository"
	"trama/internal/service"
	"trama/internal/testutil"
	"trama/internal/wbs"
)

func newTreeFixture(t *testing.T) (service.TreeService, *sql.DB, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Alfa")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, p))

	svc := service.NewTreeService(
		repository.NewSQLiteNodeRepo(database),
		testutil.NewTestUoW(database),
	)
	require.NoError(t, svc.Load(ctx, p.ID))
	return svc, database, p.ID
}

func mustCreate(t *testing.T, svc service.TreeService, parentID, title string) *domain.Node {
	t.Helper()
	n, err := svc.CreateNode(context.Background(), parentID, &domain.Node{Title: title})
	require.NoError(t, err)
	return n
}

func TestTreeService_CreatePersistsAndSurvivesReload(t *testing.T) {
	svc, database, projectID := newTreeFixture(t)
	ctx := context.Background()

	phase := mustCreate(t, svc, wbs.RootID, "Fase 1")
	task := mustCreate(t, svc, phase.ID, "Levantamento")

	// A fresh service over the same database sees the same tree.
	svc2 := service.NewTreeService(
		repository.NewSQLiteNodeRepo(database),
		testutil.NewTestUoW(database),
	)
	require.NoError(t, svc2.Load(ctx, projectID))

	rows := svc2.AllRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].DisplayCode)
	assert.Equal(t, "1.1", rows[1].DisplayCode)
	assert.Equal(t, task.ID, rows[1].Node.ID)
}

func TestTreeService_UpdateDerivesEstimate(t *testing.T) {
	svc, _, _ := newTreeFixture(t)
	ctx := context.Background()

	n := mustCreate(t, svc, wbs.RootID, "Tarefa")
	start := "01/06/2025"
	end := "05/06/2025"
	require.NoError(t, svc.UpdateNode(ctx, n.ID, wbs.Update{StartDate: &start, EndDate: &end}))

	got := svc.Node(n.ID)
	require.NotNil(t, got.EstimateHours)
	assert.Equal(t, 40.0, *got.EstimateHours, "five workdays at eight hours")
}

func TestTreeService_ReorderPersists(t *testing.T) {
	svc, database, projectID := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "A")
	b := mustCreate(t, svc, wbs.RootID, "B")
	c := mustCreate(t, svc, wbs.RootID, "C")

	require.NoError(t, svc.Reorder(ctx, c.ID, 0))

	svc2 := service.NewTreeService(
		repository.NewSQLiteNodeRepo(database),
		testutil.NewTestUoW(database),
	)
	require.NoError(t, svc2.Load(ctx, projectID))
	rows := svc2.AllRows()
	require.Len(t, rows, 3)
	assert.Equal(t, c.ID, rows[0].Node.ID)
	assert.Equal(t, a.ID, rows[1].Node.ID)
	assert.Equal(t, b.ID, rows[2].Node.ID)
}

func TestTreeService_RollbackKeepsSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Alfa")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, p))

	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: boom}
	svc := service.NewTreeService(repository.NewSQLiteNodeRepo(database), failing)
	require.NoError(t, svc.Load(ctx, p.ID))

	_, err := svc.CreateNode(ctx, wbs.RootID, &domain.Node{Title: "Tarefa"})
	require.ErrorIs(t, err, boom)

	assert.Empty(t, svc.AllRows(), "failed commit must not leak into the snapshot")

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM wbs_nodes`).Scan(&count))
	assert.Zero(t, count)
}

func TestTreeService_SoftDeleteAndRestore(t *testing.T) {
	svc, _, _ := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "A")
	b := mustCreate(t, svc, wbs.RootID, "B")

	require.NoError(t, svc.SoftDelete(ctx, a.ID))
	rows := svc.AllRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].DisplayCode, "numbering closes over the gap")
	assert.Equal(t, b.ID, rows[0].Node.ID)

	trash := svc.Trash()
	require.Len(t, trash, 1)
	assert.Equal(t, a.ID, trash[0].ID)

	require.NoError(t, svc.Restore(ctx, a.ID))
	rows = svc.AllRows()
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[1].Node.ID, "restored node rejoins at the end")
	assert.Empty(t, svc.Trash())
}

func TestTreeService_DemoteReturnsExpandTarget(t *testing.T) {
	svc, _, _ := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "A")
	b := mustCreate(t, svc, wbs.RootID, "B")

	expand, err := svc.Demote(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, expand)

	expand, err = svc.Demote(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, expand, "first sibling cannot demote")
}

func TestTreeService_BulkUpdateStatus(t *testing.T) {
	svc, _, _ := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "A")
	b := mustCreate(t, svc, wbs.RootID, "B")

	applied, err := svc.BulkUpdateStatus(ctx, []string{a.ID, b.ID, "missing"}, "DONE")
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	assert.Equal(t, "DONE", svc.Node(a.ID).Status)
	assert.NotNil(t, svc.Node(a.ID).CompletedAt)
	assert.Equal(t, "DONE", svc.Node(b.ID).Status)
}

func TestTreeService_DependenciesRoundTrip(t *testing.T) {
	svc, database, projectID := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "A")
	b := mustCreate(t, svc, wbs.RootID, "B")

	require.NoError(t, svc.AddDependency(ctx, b.ID, a.ID))
	refs := svc.Dependencies(b.ID)
	require.Len(t, refs, 1)
	assert.True(t, refs[0].Resolved)
	assert.Equal(t, "1", refs[0].Label)

	svc2 := service.NewTreeService(
		repository.NewSQLiteNodeRepo(database),
		testutil.NewTestUoW(database),
	)
	require.NoError(t, svc2.Load(ctx, projectID))
	assert.Len(t, svc2.Dependencies(b.ID), 1)

	require.NoError(t, svc.RemoveDependency(ctx, b.ID, a.ID))
	assert.Empty(t, svc.Dependencies(b.ID))
}

func TestTreeService_PurgeTrash(t *testing.T) {
	svc, database, _ := newTreeFixture(t)
	ctx := context.Background()

	a := mustCreate(t, svc, wbs.RootID, "Velha")
	require.NoError(t, svc.SoftDelete(ctx, a.ID))

	// Age the trash row past the retention window.
	old := time.Now().UTC().AddDate(0, 0, -45).Format(time.RFC3339)
	_, err := database.Exec(`UPDATE wbs_nodes SET deleted_at = ? WHERE id = ?`, old, a.ID)
	require.NoError(t, err)

	purged, err := svc.PurgeTrash(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Empty(t, svc.Trash())
	assert.Nil(t, svc.Node(a.ID))
}
