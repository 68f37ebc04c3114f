// Package folders provides the folder repository.
package folders

import (
	"context"

	"github.com/akarpov87/pagevault/internal/capture"
)

// Repository persists folder rows.
type Repository interface {
	List(ctx context.Context) ([]*capture.Folder, error)
	Insert(ctx context.Context, name string) (int64, error)
}
