package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trama/internal/db"
	"trama/internal/domain"
	"trama/internal/wbs"
)

// nodeColumns is the canonical SELECT column list for wbs_nodes, joined
// with the project name and both member references.
const nodeColumns = `n.id, n.project_id, COALESCE(p.name, ''), n.parent_id,
		n.title, n.description, n.type, n.code, n.status, n.priority,
		n.start_date, n.end_date, n.estimate_hours,
		n.service_catalog_id, n.service_multiplier, n.service_hours, n.progress,
		n.responsible_name, n.owner_id, n.sort_order,
		n.deleted_at, n.created_at, n.updated_at, n.completed_at,
		r.membership_id, r.user_id, r.name, r.email,
		o.membership_id, o.user_id, o.name, o.email`

const nodeFrom = ` FROM wbs_nodes n
		LEFT JOIN projects p ON p.id = n.project_id
		LEFT JOIN members r ON r.membership_id = n.responsible_id
		LEFT JOIN members o ON o.membership_id = n.owner_id`

// SQLiteNodeRepo implements NodeRepo on a SQLite connection or transaction.
type SQLiteNodeRepo struct {
	db db.DBTX
}

// NewSQLiteNodeRepo creates a node repository bound to the given connection.
// Pass the DBTX from UnitOfWork.WithinTx to make the repo tx-scoped.
func NewSQLiteNodeRepo(conn db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: conn}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, e wbs.Entry) error {
	n := e.Node
	query := `INSERT INTO wbs_nodes (id, project_id, parent_id, title, description,
		type, code, status, priority, start_date, end_date, estimate_hours,
		service_catalog_id, service_multiplier, service_hours, progress,
		responsible_id, responsible_name, owner_id, sort_order,
		deleted_at, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ProjectID,
		parentIDValue(e.ParentID),
		n.Title,
		n.Description,
		n.Type,
		n.Code,
		n.Status,
		n.Priority,
		nullableTimeToString(n.StartDate, dateLayout),
		nullableTimeToString(n.EndDate, dateLayout),
		nullableFloatToValue(n.EstimateHours),
		n.ServiceCatalogID,
		nullableFloatToValue(n.ServiceMultiplier),
		nullableFloatToValue(n.ServiceHours),
		nullableFloatToValue(n.Progress),
		responsibleIDValue(n),
		n.ResponsibleName,
		ownerIDValue(n),
		n.SortOrder,
		nullableTimeToString(n.DeletedAt, time.RFC3339),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
		nullableTimeToString(n.CompletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting wbs node: %w", err)
	}
	return r.replaceDependencies(ctx, n.ID, n.Dependencies)
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	query := `SELECT ` + nodeColumns + nodeFrom + ` WHERE n.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	n, _, err := r.scanNode(row)
	if err != nil {
		return nil, err
	}
	deps, err := r.loadDependencies(ctx, `SELECT node_id, predecessor_id FROM node_dependencies WHERE node_id = ?`, id)
	if err != nil {
		return nil, err
	}
	n.Dependencies = deps[id]
	return n, nil
}

func (r *SQLiteNodeRepo) ListByProject(ctx context.Context, projectID string) ([]wbs.Entry, error) {
	query := `SELECT ` + nodeColumns + nodeFrom + ` WHERE n.project_id = ? ORDER BY n.sort_order, n.created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing wbs nodes by project: %w", err)
	}
	defer rows.Close()
	entries, err := r.scanEntries(rows)
	if err != nil {
		return nil, err
	}
	deps, err := r.loadDependencies(ctx, `SELECT d.node_id, d.predecessor_id
		FROM node_dependencies d
		JOIN wbs_nodes n ON n.id = d.node_id
		WHERE n.project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	attachDependencies(entries, deps)
	return entries, nil
}

func (r *SQLiteNodeRepo) ListAll(ctx context.Context) ([]wbs.Entry, error) {
	query := `SELECT ` + nodeColumns + nodeFrom + ` ORDER BY n.project_id, n.sort_order, n.created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing wbs nodes: %w", err)
	}
	defer rows.Close()
	entries, err := r.scanEntries(rows)
	if err != nil {
		return nil, err
	}
	deps, err := r.loadDependencies(ctx, `SELECT node_id, predecessor_id FROM node_dependencies`)
	if err != nil {
		return nil, err
	}
	attachDependencies(entries, deps)
	return entries, nil
}

func (r *SQLiteNodeRepo) Update(ctx context.Context, e wbs.Entry) error {
	n := e.Node
	query := `UPDATE wbs_nodes SET project_id = ?, parent_id = ?, title = ?,
		description = ?, type = ?, code = ?, status = ?, priority = ?,
		start_date = ?, end_date = ?, estimate_hours = ?,
		service_catalog_id = ?, service_multiplier = ?, service_hours = ?, progress = ?,
		responsible_id = ?, responsible_name = ?, owner_id = ?, sort_order = ?,
		deleted_at = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		n.ProjectID,
		parentIDValue(e.ParentID),
		n.Title,
		n.Description,
		n.Type,
		n.Code,
		n.Status,
		n.Priority,
		nullableTimeToString(n.StartDate, dateLayout),
		nullableTimeToString(n.EndDate, dateLayout),
		nullableFloatToValue(n.EstimateHours),
		n.ServiceCatalogID,
		nullableFloatToValue(n.ServiceMultiplier),
		nullableFloatToValue(n.ServiceHours),
		nullableFloatToValue(n.Progress),
		responsibleIDValue(n),
		n.ResponsibleName,
		ownerIDValue(n),
		n.SortOrder,
		nullableTimeToString(n.DeletedAt, time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
		nullableTimeToString(n.CompletedAt, time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating wbs node: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("wbs node %s: %w", n.ID, ErrNotFound)
	}
	return r.replaceDependencies(ctx, n.ID, n.Dependencies)
}

// UpdatePlacement moves a node without touching its content columns. Used
// when a reorder or reparent shifts siblings that are otherwise unchanged.
func (r *SQLiteNodeRepo) UpdatePlacement(ctx context.Context, id, parentID string, sortOrder int) error {
	query := `UPDATE wbs_nodes SET parent_id = ?, sort_order = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, parentIDValue(parentID), sortOrder, id)
	if err != nil {
		return fmt.Errorf("updating wbs node placement: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("wbs node %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wbs_nodes WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting wbs node: %w", err)
	}
	return nil
}

// PurgeDeletedBefore hard-deletes trash rows older than the cutoff and
// returns how many were removed. Children cascade with their parents.
func (r *SQLiteNodeRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `DELETE FROM wbs_nodes WHERE deleted_at IS NOT NULL AND deleted_at < ?`
	res, err := r.db.ExecContext(ctx, query, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purging deleted wbs nodes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged wbs nodes: %w", err)
	}
	return int(affected), nil
}

func (r *SQLiteNodeRepo) replaceDependencies(ctx context.Context, nodeID string, deps []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM node_dependencies WHERE node_id = ?`, nodeID); err != nil {
		return fmt.Errorf("clearing node dependencies: %w", err)
	}
	for _, pred := range deps {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO node_dependencies (node_id, predecessor_id) VALUES (?, ?)`,
			nodeID, pred); err != nil {
			return fmt.Errorf("inserting node dependency: %w", err)
		}
	}
	return nil
}

func (r *SQLiteNodeRepo) loadDependencies(ctx context.Context, query string, args ...any) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing node dependencies: %w", err)
	}
	defer rows.Close()

	deps := make(map[string][]string)
	for rows.Next() {
		var nodeID, predID string
		if err := rows.Scan(&nodeID, &predID); err != nil {
			return nil, fmt.Errorf("scanning node dependency: %w", err)
		}
		deps[nodeID] = append(deps[nodeID], predID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node dependencies: %w", err)
	}
	return deps, nil
}

func attachDependencies(entries []wbs.Entry, deps map[string][]string) {
	for _, e := range entries {
		e.Node.Dependencies = deps[e.Node.ID]
	}
}

// nodeScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type nodeScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteNodeRepo) scanNode(row *sql.Row) (*domain.Node, string, error) {
	n, parentID, err := scanNodeFields(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", fmt.Errorf("wbs node: %w", ErrNotFound)
		}
		return nil, "", fmt.Errorf("scanning wbs node: %w", err)
	}
	return n, parentID, nil
}

func (r *SQLiteNodeRepo) scanEntries(rows *sql.Rows) ([]wbs.Entry, error) {
	var entries []wbs.Entry
	for rows.Next() {
		n, parentID, err := scanNodeFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wbs node row: %w", err)
		}
		entries = append(entries, wbs.Entry{Node: n, ParentID: parentID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs nodes: %w", err)
	}
	return entries, nil
}

func scanNodeFields(sc nodeScanner) (*domain.Node, string, error) {
	var n domain.Node
	var parentID sql.NullString
	var startDateStr, endDateStr sql.NullString
	var estimateHours, serviceMultiplier, serviceHours, progress sql.NullFloat64
	var deletedAtStr, completedAtStr sql.NullString
	var createdAtStr, updatedAtStr string
	var respID, respUser, respName, respEmail sql.NullString
	var ownID, ownUser, ownName, ownEmail sql.NullString

	err := sc.Scan(
		&n.ID, &n.ProjectID, &n.ProjectName, &parentID,
		&n.Title, &n.Description, &n.Type, &n.Code, &n.Status, &n.Priority,
		&startDateStr, &endDateStr, &estimateHours,
		&n.ServiceCatalogID, &serviceMultiplier, &serviceHours, &progress,
		&n.ResponsibleName, &n.OwnerID, &n.SortOrder,
		&deletedAtStr, &createdAtStr, &updatedAtStr, &completedAtStr,
		&respID, &respUser, &respName, &respEmail,
		&ownID, &ownUser, &ownName, &ownEmail,
	)
	if err != nil {
		return nil, "", err
	}

	n.StartDate = parseNullableTime(startDateStr, dateLayout)
	n.EndDate = parseNullableTime(endDateStr, dateLayout)
	n.EstimateHours = nullableFloatPtr(estimateHours)
	n.ServiceMultiplier = nullableFloatPtr(serviceMultiplier)
	n.ServiceHours = nullableFloatPtr(serviceHours)
	n.Progress = nullableFloatPtr(progress)
	n.DeletedAt = parseNullableTime(deletedAtStr, time.RFC3339)
	n.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

	var parseErr error
	n.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, "", fmt.Errorf("parsing created_at: %w", parseErr)
	}
	n.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, "", fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	if respID.Valid {
		n.Responsible = &domain.Member{
			MembershipID: respID.String,
			UserID:       respUser.String,
			Name:         respName.String,
			Email:        respEmail.String,
		}
	}
	if ownID.Valid {
		n.Owner = &domain.Member{
			MembershipID: ownID.String,
			UserID:       ownUser.String,
			Name:         ownName.String,
			Email:        ownEmail.String,
		}
	}

	parent := ""
	if parentID.Valid {
		parent = parentID.String
	}
	return &n, parent, nil
}

// parentIDValue maps the root pseudo-id to SQL NULL.
func parentIDValue(parentID string) interface{} {
	if parentID == wbs.RootID {
		return nil
	}
	return parentID
}

func responsibleIDValue(n *domain.Node) string {
	if n.Responsible != nil {
		return n.Responsible.MembershipID
	}
	return ""
}

func ownerIDValue(n *domain.Node) string {
	if n.Owner != nil {
		return n.Owner.MembershipID
	}
	return n.OwnerID
}
