package facility

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateFacility(ctx context.Context, f *Facility) error {
	if f.ID == "" {
		return fmt.Errorf("id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Create(ctx, f)
}

func (s *Service) GetFacility(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListFacilities(ctx context.Context, limit, offset int) ([]*Facility, int, error) {
	return s.repo.List(ctx, limit, offset)
}
