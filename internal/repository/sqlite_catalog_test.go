package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/repository"
	"trama/internal/testutil"
)

func TestServiceCatalogRepo_CRUD(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewSQLiteServiceCatalogRepo(database)

	item := testutil.NewTestServiceItem("Desenvolvimento", 16)
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, got.BaseHours)

	got.BaseHours = 24
	got.Name = "Desenvolvimento Sênior"
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 24.0, all[0].BaseHours)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestServiceCatalogRepo_UpdateMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteServiceCatalogRepo(database)

	item := testutil.NewTestServiceItem("Fantasma", 1)
	assert.ErrorIs(t, repo.Update(context.Background(), item), repository.ErrNotFound)
}

func TestMemberRepo_UpsertOverwrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewSQLiteMemberRepo(database)

	m := testutil.NewTestMember("Ana", "ana@example.com")
	require.NoError(t, repo.Upsert(ctx, m))

	m.Email = "ana.souza@example.com"
	require.NoError(t, repo.Upsert(ctx, m))

	got, err := repo.GetByID(ctx, m.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, "ana.souza@example.com", got.Email)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
