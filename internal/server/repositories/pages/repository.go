package pages

import (
	"context"

	"github.com/akarpov87/pagevault/internal/capture"
)

// ListOptions filters a folder listing. PageNumber is 1-indexed; when either
// pagination field is zero the whole folder is returned.
type ListOptions struct {
	FolderID   int64
	PageNumber int
	PageSize   int
}

// Repository persists page metadata rows. Read paths exclude soft-deleted
// rows; Delete removes the row outright (the delete endpoint is a hard
// delete, the is_deleted column serves the other read paths).
type Repository interface {
	Insert(ctx context.Context, page *capture.Page) (int64, error)
	ListByFolder(ctx context.Context, opts ListOptions) ([]*capture.Page, error)
	GetByID(ctx context.Context, id int64) (*capture.Page, error)
	UpdateFolder(ctx context.Context, id, folderID int64) error
	Delete(ctx context.Context, id int64) error
}
