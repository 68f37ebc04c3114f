package pages

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
)

// MemoryRepository keeps page rows in a map, for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*capture.Page

	// InsertErr, when set, makes the next Insert fail.
	InsertErr error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, rows: make(map[int64]*capture.Page)}
}

func (r *MemoryRepository) Insert(_ context.Context, page *capture.Page) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		return 0, r.InsertErr
	}
	cp := *page
	cp.ID = r.nextID
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.rows[cp.ID] = &cp
	r.nextID++
	return cp.ID, nil
}

func (r *MemoryRepository) ListByFolder(_ context.Context, opts ListOptions) ([]*capture.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*capture.Page
	for _, row := range r.rows {
		if row.FolderID == opts.FolderID && !row.IsDeleted {
			cp := *row
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if opts.PageNumber > 0 && opts.PageSize > 0 {
		from := (opts.PageNumber - 1) * opts.PageSize
		if from >= len(result) {
			return nil, nil
		}
		to := from + opts.PageSize
		if to > len(result) {
			to = len(result)
		}
		result = result[from:to]
	}
	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*capture.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok || row.IsDeleted {
		return nil, fmt.Errorf("%w: page %d", common.ErrNotFound, id)
	}
	cp := *row
	return &cp, nil
}

func (r *MemoryRepository) UpdateFolder(_ context.Context, id, folderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.FolderID = folderID
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

// Len reports the number of stored rows.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
