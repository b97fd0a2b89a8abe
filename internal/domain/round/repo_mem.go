package round

import (
	"context"
	"sync"
)

type repoMem struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Round
}

func NewRepoMem() Repository {
	return &repoMem{byID: make(map[string]*Round)}
}

func (r *repoMem) Create(_ context.Context, rd *Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rd.ID]; !ok {
		r.order = append(r.order, rd.ID)
	}
	r.byID[rd.ID] = rd.clone()
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rd.clone(), nil
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Round, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.order)
	if offset >= total {
		return []*Round{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	result := make([]*Round, 0, end-offset)
	for _, id := range r.order[offset:end] {
		result = append(result, r.byID[id].clone())
	}
	return result, total, nil
}

func (r *repoMem) ListByFacility(_ context.Context, facilityID string) ([]*Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*Round
	for _, id := range r.order {
		if rd := r.byID[id]; rd.FacilityID == facilityID {
			result = append(result, rd.clone())
		}
	}
	return result, nil
}

func (r *repoMem) UpdateVisit(_ context.Context, roundID, visitID string, fn func(*Visit) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rd, ok := r.byID[roundID]
	if !ok {
		return ErrNotFound
	}
	v := rd.visit(visitID)
	if v == nil {
		return ErrVisitNotFound
	}
	return fn(v)
}

func (r *repoMem) GetVisit(_ context.Context, roundID, visitID string) (*Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.byID[roundID]
	if !ok {
		return nil, ErrNotFound
	}
	v := rd.visit(visitID)
	if v == nil {
		return nil, ErrVisitNotFound
	}
	cp := *v
	if v.ClinicalData != nil {
		data := v.ClinicalData.Clone()
		cp.ClinicalData = &data
	}
	return &cp, nil
}
