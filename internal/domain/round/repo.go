package round

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("round not found")
	ErrVisitNotFound = errors.New("visit not found")
)

// Repository stores rounds with their contained visits. Implementations
// must return defensive copies so callers cannot mutate stored state.
type Repository interface {
	Create(ctx context.Context, r *Round) error
	GetByID(ctx context.Context, id string) (*Round, error)
	List(ctx context.Context, limit, offset int) ([]*Round, int, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*Round, error)

	// UpdateVisit applies fn to the named visit under the store's write
	// lock and persists the result. fn sees the stored visit, not a copy.
	UpdateVisit(ctx context.Context, roundID, visitID string, fn func(*Visit) error) error
	GetVisit(ctx context.Context, roundID, visitID string) (*Visit, error)
}
