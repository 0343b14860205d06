package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/repository"
	"trama/internal/service"
	"trama/internal/testutil"
)

// newTestApp wires a full App against an in-memory database.
func newTestApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projectRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	catalogRepo := repository.NewSQLiteServiceCatalogRepo(database)
	memberRepo := repository.NewSQLiteMemberRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)

	return &App{
		Projects:      service.NewProjectService(projectRepo),
		Tree:          service.NewTreeService(nodeRepo, uow),
		Analytics:     service.NewAnalyticsService(nodeRepo, catalogRepo, commentRepo, projectRepo),
		Catalog:       service.NewCatalogService(catalogRepo),
		Members:       service.NewMemberService(memberRepo),
		Comments:      service.NewCommentService(commentRepo),
		IsInteractive: func() bool { return false },
	}
}

// runCmd executes the root command with args and returns combined output.
func runCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestProjectAddAndList(t *testing.T) {
	app := newTestApp(t)

	out, err := runCmd(t, app, "project", "add", "Website", "Redesign")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Website Redesign")

	out, err = runCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Website Redesign")
}

func TestTaskAddAssignsCodes(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)

	out, err := runCmd(t, app, "task", "add", "Discovery")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 Discovery")

	out, err = runCmd(t, app, "task", "add", "Interviews", "--parent", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1.1 Interviews")
}

func TestTaskDoneAndTree(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Build")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Ship")
	require.NoError(t, err)

	out, err := runCmd(t, app, "task", "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked 1 task(s) done")

	out, err = runCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ Build")
	assert.Contains(t, out, "Ship")

	out, err = runCmd(t, app, "tree", "--status", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "Build")
	assert.NotContains(t, out, "Ship")
}

func TestTaskRmRestoreRoundTrip(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Doomed")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Survivor")
	require.NoError(t, err)

	_, err = runCmd(t, app, "task", "rm", "1")
	require.NoError(t, err)

	// The survivor takes over position 1.
	out, err := runCmd(t, app, "tree")
	require.NoError(t, err)
	assert.NotContains(t, out, "Doomed")
	assert.Contains(t, out, "1 Survivor")

	out, err = runCmd(t, app, "trash", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Doomed")

	doomedID := ""
	for _, n := range app.Tree.Trash() {
		doomedID = n.ID
	}
	require.NotEmpty(t, doomedID)

	_, err = runCmd(t, app, "task", "restore", doomedID[:8])
	require.NoError(t, err)

	out, err = runCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Doomed")
}

func TestTaskMoveCommands(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	for _, title := range []string{"One", "Two", "Three"} {
		_, err = runCmd(t, app, "task", "add", title)
		require.NoError(t, err)
	}

	out, err := runCmd(t, app, "task", "reorder", "3", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Now at 1")

	out, err = runCmd(t, app, "task", "demote", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Now at 1.1")

	out, err = runCmd(t, app, "task", "promote", "1.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Now at 2")
}

func TestDepCommands(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Foundation")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Walls")
	require.NoError(t, err)

	_, err = runCmd(t, app, "task", "dep", "add", "2", "1")
	require.NoError(t, err)

	out, err := runCmd(t, app, "task", "dep", "list", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Foundation")

	_, err = runCmd(t, app, "task", "dep", "rm", "2", "1")
	require.NoError(t, err)

	out, err = runCmd(t, app, "task", "dep", "list", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No dependencies")
}

func TestProjectRmNeedsForce(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)

	_, err = runCmd(t, app, "project", "rm", "Alpha")
	require.Error(t, err)

	_, err = runCmd(t, app, "project", "rm", "Alpha", "--force")
	require.NoError(t, err)

	projects, err := app.Projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCatalogAndMemberCommands(t *testing.T) {
	app := newTestApp(t)

	out, err := runCmd(t, app, "catalog", "add", "Design sprint", "--hours", "16", "--rate", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Design sprint")

	out, err = runCmd(t, app, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "16h")

	out, err = runCmd(t, app, "member", "add", "Ana", "--email", "ana@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered Ana")

	out, err = runCmd(t, app, "member", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")
}

func TestCommentCommands(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)

	_, err = runCmd(t, app, "comment", "add", "Kickoff", "went", "well", "--author", "Ana")
	require.NoError(t, err)

	out, err := runCmd(t, app, "comment", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Kickoff went well")
}

func TestDashboardCommand(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Build")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Ship")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "done", "1")
	require.NoError(t, err)

	out, err := runCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "OVERVIEW")
	assert.Contains(t, out, "50%")
}

func TestResolveNodeByPrefixAndCode(t *testing.T) {
	app := newTestApp(t)
	_, err := runCmd(t, app, "project", "add", "Alpha")
	require.NoError(t, err)
	_, err = runCmd(t, app, "task", "add", "Target")
	require.NoError(t, err)

	require.NoError(t, app.Tree.Load(context.Background(), app.Tree.ProjectID()))
	rows := app.Tree.AllRows()
	require.Len(t, rows, 1)
	id := rows[0].Node.ID

	got, err := resolveNodeID(app, "1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = resolveNodeID(app, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = resolveNodeID(app, "nope")
	require.Error(t, err)
}
