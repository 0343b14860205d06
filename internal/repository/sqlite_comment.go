package repository

import (
	"context"
	"fmt"
	"time"

	"trama/internal/db"
	"trama/internal/domain"
)

// SQLiteCommentRepo implements CommentRepo using a SQLite database.
type SQLiteCommentRepo struct {
	db db.DBTX
}

// NewSQLiteCommentRepo creates a new SQLiteCommentRepo.
func NewSQLiteCommentRepo(conn db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: conn}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (id, project_id, author_name, body, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.AuthorName,
		c.Body,
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *SQLiteCommentRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Comment, error) {
	query := `SELECT id, project_id, author_name, body, created_at FROM comments
		WHERE project_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing comments by project: %w", err)
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *SQLiteCommentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	query := `SELECT id, project_id, author_name, body, created_at FROM comments
		ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent comments: %w", err)
	}
	defer rows.Close()
	return scanComments(rows)
}

type commentRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanComments(rows commentRows) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var createdAtStr string
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AuthorName, &c.Body, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		c.CreatedAt = t
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}
