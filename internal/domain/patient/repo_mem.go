package patient

import (
	"context"
	"sync"

	"github.com/yorisoi/homevisit/internal/domain/note"
)

type repoMem struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Patient
}

func NewRepoMem() Repository {
	return &repoMem{byID: make(map[string]*Patient)}
}

func (r *repoMem) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(p)
	return nil
}

func (r *repoMem) CreateBatch(_ context.Context, ps []*Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		r.insert(p)
	}
	return nil
}

// insert assumes the write lock is held.
func (r *repoMem) insert(p *Patient) {
	cp := p.clone()
	if cp.Records == nil {
		cp.Records = []Record{}
	}
	r.order = append(r.order, cp.ID)
	r.byID[cp.ID] = cp
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
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
	result := make([]*Patient, 0, end-offset)
	for _, id := range r.order[offset:end] {
		result = append(result, r.byID[id].header())
	}
	return result, total, nil
}

func (r *repoMem) ListByFacility(_ context.Context, facilityID string) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*Patient
	for _, id := range r.order {
		if p := r.byID[id]; p.FacilityID == facilityID {
			result = append(result, p.header())
		}
	}
	return result, nil
}

func (r *repoMem) AppendRecord(_ context.Context, patientID string, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[patientID]
	if !ok {
		return ErrNotFound
	}
	cp := *rec
	cp.ClinicalData = rec.ClinicalData.Clone()
	p.Records = append(p.Records, cp)
	return nil
}

func (r *repoMem) GetRecord(_ context.Context, patientID, recordID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range p.Records {
		if p.Records[i].ID == recordID {
			cp := p.Records[i]
			cp.ClinicalData = p.Records[i].ClinicalData.Clone()
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *repoMem) UpdateRecordData(_ context.Context, patientID, recordID string, data note.ClinicalData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[patientID]
	if !ok {
		return ErrNotFound
	}
	for i := range p.Records {
		if p.Records[i].ID == recordID {
			p.Records[i].ClinicalData = data.Clone()
			return nil
		}
	}
	return ErrRecordNotFound
}
