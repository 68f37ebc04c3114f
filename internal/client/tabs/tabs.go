// Package tabs tracks the open tabs a capture session can target.
package tabs

import (
	"fmt"
	"sync"

	"github.com/akarpov87/pagevault/internal/common"
)

// Tab is one open page the user can capture.
type Tab struct {
	ID  int
	URL string
}

// Resolver looks up a tab by id. A missing or closed tab yields an error
// wrapping common.ErrTabResolution.
type Resolver interface {
	Get(id int) (*Tab, error)
}

// Registry is an in-memory tab table. IDs are assigned sequentially starting
// from 1; 0 is never a valid tab id.
type Registry struct {
	mu   sync.RWMutex
	next int
	tabs map[int]*Tab
}

func NewRegistry() *Registry {
	return &Registry{tabs: make(map[int]*Tab)}
}

// Open registers a new tab for the given URL and returns it.
func (r *Registry) Open(url string) *Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	t := &Tab{ID: r.next, URL: url}
	r.tabs[t.ID] = t
	return t
}

// Close removes the tab. Closing an unknown id is a no-op.
func (r *Registry) Close(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tabs, id)
}

// Get implements Resolver.
func (r *Registry) Get(id int) (*Tab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w: tab %d", common.ErrTabResolution, id)
	}
	return t, nil
}
