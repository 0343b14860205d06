package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/repository"
	"trama/internal/service"
	"trama/internal/testutil"
)

func TestProjectService_CreateValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := service.NewProjectService(repository.NewSQLiteProjectRepo(database))
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ")
	assert.Error(t, err)

	p, err := svc.Create(ctx, "  Alfa  ")
	require.NoError(t, err)
	assert.Equal(t, "Alfa", p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestCatalogService_CreateValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := service.NewCatalogService(repository.NewSQLiteServiceCatalogRepo(database))
	ctx := context.Background()

	_, err := svc.Create(ctx, "", 8, 100)
	assert.Error(t, err)

	_, err = svc.Create(ctx, "Dev", -1, 100)
	assert.Error(t, err)

	item, err := svc.Create(ctx, "Dev", 16, 120)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, got.BaseHours)
}

func TestCommentService_PostValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Alfa")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, p))

	svc := service.NewCommentService(repository.NewSQLiteCommentRepo(database))
	_, err := svc.Post(ctx, p.ID, "Ana", "  ")
	assert.Error(t, err)

	c, err := svc.Post(ctx, p.ID, "Ana", "revisar datas")
	require.NoError(t, err)

	got, err := svc.ListByProject(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].ID)
}

func TestMemberService_UpsertValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := service.NewMemberService(repository.NewSQLiteMemberRepo(database))
	ctx := context.Background()

	m := testutil.NewTestMember("", "")
	m.Name = ""
	m.Email = ""
	assert.Error(t, svc.Upsert(ctx, m))

	m2 := testutil.NewTestMember("Ana", "ana@example.com")
	require.NoError(t, svc.Upsert(ctx, m2))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
