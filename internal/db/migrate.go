package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSortOrder(db); err != nil {
		return fmt.Errorf("backfilling sort_order values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS wbs_nodes (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id          TEXT REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		type               TEXT NOT NULL DEFAULT '',
		code               TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'BACKLOG',
		priority           TEXT NOT NULL DEFAULT '',
		start_date         TEXT,
		end_date           TEXT,
		estimate_hours     REAL,
		service_catalog_id TEXT NOT NULL DEFAULT '',
		service_multiplier REAL,
		service_hours      REAL,
		progress           REAL,
		responsible_id     TEXT NOT NULL DEFAULT '',
		responsible_name   TEXT NOT NULL DEFAULT '',
		owner_id           TEXT NOT NULL DEFAULT '',
		sort_order         INTEGER NOT NULL DEFAULT 0,
		deleted_at         TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		completed_at       TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_project ON wbs_nodes(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_parent ON wbs_nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_deleted ON wbs_nodes(deleted_at) WHERE deleted_at IS NOT NULL`,

	// Predecessor ids may dangle (the referenced node can be hard-deleted
	// out of band), so predecessor_id carries no foreign key on purpose.
	`CREATE TABLE IF NOT EXISTS node_dependencies (
		node_id        TEXT NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL,
		PRIMARY KEY (node_id, predecessor_id)
	)`,

	`CREATE TABLE IF NOT EXISTS service_catalog (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		base_hours REAL NOT NULL DEFAULT 0,
		rate       REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		membership_id TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		author_name TEXT NOT NULL DEFAULT '',
		body        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_created ON comments(created_at)`,

	// Added after the initial release: explicit completion stamps and the
	// denormalized owner fallback used by imports from external trackers.
	`ALTER TABLE wbs_nodes ADD COLUMN completed_at TEXT`,
	`ALTER TABLE wbs_nodes ADD COLUMN owner_id TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSortOrder assigns positions to sibling groups imported
// before sort_order existed (all zeros). Orders by created_at within each
// parent. Idempotent: a group with any nonzero position is left alone.
func migrateBackfillSortOrder(db *sql.DB) error {
	ctx := context.Background()

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wbs_nodes WHERE sort_order = 0`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking wbs_nodes sort_order: %w", err)
	}
	if count <= 1 {
		return nil
	}

	type group struct {
		projectID string
		parentID  sql.NullString
	}
	rows, err := db.QueryContext(ctx, `SELECT project_id, parent_id FROM wbs_nodes
		GROUP BY project_id, parent_id
		HAVING COUNT(*) > 1 AND MAX(sort_order) = 0`)
	if err != nil {
		return fmt.Errorf("listing sibling groups: %w", err)
	}
	var groups []group
	for rows.Next() {
		var g group
		if err := rows.Scan(&g.projectID, &g.parentID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning sibling group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sibling groups: %w", err)
	}

	for _, g := range groups {
		if err := backfillGroupOrder(ctx, db, g.projectID, g.parentID); err != nil {
			return fmt.Errorf("backfilling order for project %s: %w", g.projectID, err)
		}
	}
	return nil
}

func backfillGroupOrder(ctx context.Context, db *sql.DB, projectID string, parentID sql.NullString) error {
	query := `SELECT id FROM wbs_nodes WHERE project_id = ? AND parent_id IS ? ORDER BY created_at, id`
	rows, err := db.QueryContext(ctx, query, projectID, parentID)
	if err != nil {
		return fmt.Errorf("listing siblings: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := db.ExecContext(ctx,
			`UPDATE wbs_nodes SET sort_order = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("updating sibling order: %w", err)
		}
	}
	return nil
}
