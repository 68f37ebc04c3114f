package folders

import (
	"context"
	"sort"
	"sync"

	"github.com/akarpov87/pagevault/internal/capture"
)

// MemoryRepository keeps folders in a map, for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*capture.Folder
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, rows: make(map[int64]*capture.Folder)}
}

func (r *MemoryRepository) List(_ context.Context) ([]*capture.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*capture.Folder, 0, len(r.rows))
	for _, row := range r.rows {
		cp := *row
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) Insert(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.rows[id] = &capture.Folder{ID: id, Name: name}
	r.nextID++
	return id, nil
}
