// Package pages provides the PostgreSQL-backed repository for page metadata
// rows.
package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/dbx"
)

// PostgresRepository implements page storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a fresh metadata row and returns its id.
func (r *PostgresRepository) Insert(ctx context.Context, page *capture.Page) (int64, error) {
	query := `
		INSERT INTO pages (title, page_desc, page_url, content_url, folder_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		page.Title, page.PageDesc, page.PageURL, page.ContentURL, page.FolderID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// ListByFolder returns the folder's live pages, newest first, ties broken by
// insertion order. Pagination offset is (pageNumber-1)*pageSize.
func (r *PostgresRepository) ListByFolder(ctx context.Context, opts ListOptions) ([]*capture.Page, error) {
	query := `
		SELECT id, title, page_desc, page_url, content_url, folder_id, created_at, updated_at
		FROM pages
		WHERE folder_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC, id DESC
	`
	args := []any{opts.FolderID}
	if opts.PageNumber > 0 && opts.PageSize > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, opts.PageSize, (opts.PageNumber-1)*opts.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select pages: %w", err)
	}
	defer rows.Close()

	var result []*capture.Page
	for rows.Next() {
		var item capture.Page
		if err := rows.Scan(
			&item.ID, &item.Title, &item.PageDesc, &item.PageURL, &item.ContentURL,
			&item.FolderID, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID fetches one live page; soft-deleted rows are invisible here.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*capture.Page, error) {
	query := `
		SELECT id, title, page_desc, page_url, content_url, folder_id, created_at, updated_at
		FROM pages
		WHERE id = $1 AND is_deleted = FALSE
	`
	var item capture.Page
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.PageDesc, &item.PageURL, &item.ContentURL,
		&item.FolderID, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: page %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// UpdateFolder reassigns the page to another folder. Every other column is
// immutable once stored.
func (r *PostgresRepository) UpdateFolder(ctx context.Context, id, folderID int64) error {
	query := `UPDATE pages SET folder_id = $1, updated_at = now() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, folderID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the row. The referenced blob is not reclaimed.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM pages WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
