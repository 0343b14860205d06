package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMigrate_Idempotent(t *testing.T) {
	database := openMigratedDB(t)

	// OpenDB already migrated once; running again must not fail on the
	// texture ALTERs.
	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	database := openMigratedDB(t)

	expected := []string{"projects", "wbs_nodes", "node_dependencies", "service_catalog", "members", "comments"}
	for _, table := range expected {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	database := openMigratedDB(t)

	expected := []string{
		"idx_wbs_nodes_project",
		"idx_wbs_nodes_parent",
		"idx_wbs_nodes_deleted",
		"idx_comments_project",
		"idx_comments_created",
	}
	for _, idx := range expected {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ParentCascadeDelete(t *testing.T) {
	database := openMigratedDB(t)

	_, err := database.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'P', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, title, created_at, updated_at) VALUES ('a', 'p1', 'Parent', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, parent_id, title, created_at, updated_at) VALUES ('b', 'p1', 'a', 'Child', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`DELETE FROM wbs_nodes WHERE id = 'a'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM wbs_nodes`).Scan(&count))
	assert.Equal(t, 0, count, "deleting a parent row should cascade to children")
}

func TestMigrate_DanglingDependencyAllowed(t *testing.T) {
	database := openMigratedDB(t)

	_, err := database.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'P', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, title, created_at, updated_at) VALUES ('a', 'p1', 'Task', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// The predecessor column deliberately has no foreign key, so a
	// reference to a node that never existed must insert cleanly.
	_, err = database.Exec(`INSERT INTO node_dependencies (node_id, predecessor_id) VALUES ('a', 'ghost')`)
	require.NoError(t, err)
}

func TestMigrate_BackfillSortOrder(t *testing.T) {
	// Build a legacy database by hand: rows exist but every sort_order is
	// zero, the state a pre-ordering schema leaves behind.
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, Migrate(database))

	_, err = database.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'P', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	for _, row := range []struct{ id, created string }{
		{"n1", "2025-01-03T00:00:00Z"},
		{"n2", "2025-01-01T00:00:00Z"},
		{"n3", "2025-01-02T00:00:00Z"},
	} {
		_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, title, sort_order, created_at, updated_at) VALUES (?, 'p1', 'T', 0, ?, ?)`, row.id, row.created, row.created)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(database))

	got := map[string]int{}
	rows, err := database.Query(`SELECT id, sort_order FROM wbs_nodes`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id string
		var so int
		require.NoError(t, rows.Scan(&id, &so))
		got[id] = so
	}
	require.NoError(t, rows.Err())

	// Creation order wins: oldest first.
	assert.Equal(t, map[string]int{"n2": 0, "n3": 1, "n1": 2}, got)
}

func TestMigrate_BackfillLeavesExplicitOrderAlone(t *testing.T) {
	database := openMigratedDB(t)

	_, err := database.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'P', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, title, sort_order, created_at, updated_at) VALUES ('n1', 'p1', 'T', 1, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO wbs_nodes (id, project_id, title, sort_order, created_at, updated_at) VALUES ('n2', 'p1', 'T', 0, '2025-01-02T00:00:00Z', '2025-01-02T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database))

	var so int
	require.NoError(t, database.QueryRow(`SELECT sort_order FROM wbs_nodes WHERE id = 'n1'`).Scan(&so))
	assert.Equal(t, 1, so, "a group with any non-zero sort_order is considered already ordered")
}
