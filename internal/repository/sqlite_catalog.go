package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trama/internal/db"
	"trama/internal/domain"
)

const catalogColumns = `id, name, base_hours, rate, created_at, updated_at`

// SQLiteServiceCatalogRepo implements ServiceCatalogRepo using a SQLite
// database.
type SQLiteServiceCatalogRepo struct {
	db db.DBTX
}

// NewSQLiteServiceCatalogRepo creates a new SQLiteServiceCatalogRepo.
func NewSQLiteServiceCatalogRepo(conn db.DBTX) *SQLiteServiceCatalogRepo {
	return &SQLiteServiceCatalogRepo{db: conn}
}

func (r *SQLiteServiceCatalogRepo) Create(ctx context.Context, item *domain.ServiceItem) error {
	query := `INSERT INTO service_catalog (` + catalogColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.BaseHours,
		item.Rate,
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting service catalog item: %w", err)
	}
	return nil
}

func (r *SQLiteServiceCatalogRepo) GetByID(ctx context.Context, id string) (*domain.ServiceItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM service_catalog WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanCatalogItem(row)
}

func (r *SQLiteServiceCatalogRepo) List(ctx context.Context) ([]domain.ServiceItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM service_catalog ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing service catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.ServiceItem
	for rows.Next() {
		var item domain.ServiceItem
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&item.ID, &item.Name, &item.BaseHours, &item.Rate,
			&createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning service catalog row: %w", err)
		}
		if err := parseCatalogTimes(&item, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service catalog: %w", err)
	}
	return items, nil
}

func (r *SQLiteServiceCatalogRepo) Update(ctx context.Context, item *domain.ServiceItem) error {
	query := `UPDATE service_catalog SET name = ?, base_hours = ?, rate = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		item.Name,
		item.BaseHours,
		item.Rate,
		item.UpdatedAt.Format(time.RFC3339),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating service catalog item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("service catalog item %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteServiceCatalogRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM service_catalog WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting service catalog item: %w", err)
	}
	return nil
}

func scanCatalogItem(row *sql.Row) (*domain.ServiceItem, error) {
	var item domain.ServiceItem
	var createdAtStr, updatedAtStr string
	err := row.Scan(&item.ID, &item.Name, &item.BaseHours, &item.Rate,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("service catalog item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning service catalog item: %w", err)
	}
	if err := parseCatalogTimes(&item, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &item, nil
}

func parseCatalogTimes(item *domain.ServiceItem, createdAtStr, updatedAtStr string) error {
	var err error
	item.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
