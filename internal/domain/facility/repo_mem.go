package facility

import (
	"context"
	"sync"
)

// repoMem is the in-memory store used by the default (session-scoped)
// deployment. Insertion order is preserved so "first facility" is stable.
type repoMem struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]*Facility
	byName map[string]string
}

func NewRepoMem() Repository {
	return &repoMem{
		byID:   make(map[string]*Facility),
		byName: make(map[string]string),
	}
}

func (r *repoMem) Create(_ context.Context, f *Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.order = append(r.order, cp.ID)
	r.byID[cp.ID] = &cp
	r.byName[cp.Name] = cp.ID
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *repoMem) GetByName(_ context.Context, name string) (*Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *repoMem) First(_ context.Context) (*Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, ErrNotFound
	}
	cp := *r.byID[r.order[0]]
	return &cp, nil
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Facility, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	result := make([]*Facility, 0, end-offset)
	for _, id := range r.order[offset:end] {
		cp := *r.byID[id]
		result = append(result, &cp)
	}
	return result, total, nil
}
