package repository

import (
	"context"
	"database/sql"
	"fmt"

	"trama/internal/db"
	"trama/internal/domain"
)

// SQLiteMemberRepo implements MemberRepo using a SQLite database. The
// member directory is a mirror of an external source, so writes are
// upserts keyed by membership id.
type SQLiteMemberRepo struct {
	db db.DBTX
}

// NewSQLiteMemberRepo creates a new SQLiteMemberRepo.
func NewSQLiteMemberRepo(conn db.DBTX) *SQLiteMemberRepo {
	return &SQLiteMemberRepo{db: conn}
}

func (r *SQLiteMemberRepo) Upsert(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (membership_id, user_id, name, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(membership_id) DO UPDATE
		SET user_id = excluded.user_id, name = excluded.name, email = excluded.email`
	_, err := r.db.ExecContext(ctx, query,
		m.MembershipID,
		m.UserID,
		m.Name,
		m.Email,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting member: %w", err)
	}
	return nil
}

func (r *SQLiteMemberRepo) GetByID(ctx context.Context, membershipID string) (*domain.Member, error) {
	query := `SELECT membership_id, user_id, name, email FROM members WHERE membership_id = ?`
	var m domain.Member
	err := r.db.QueryRowContext(ctx, query, membershipID).
		Scan(&m.MembershipID, &m.UserID, &m.Name, &m.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	return &m, nil
}

func (r *SQLiteMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT membership_id, user_id, name, email FROM members ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.MembershipID, &m.UserID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

func (r *SQLiteMemberRepo) Delete(ctx context.Context, membershipID string) error {
	query := `DELETE FROM members WHERE membership_id = ?`
	if _, err := r.db.ExecContext(ctx, query, membershipID); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}
