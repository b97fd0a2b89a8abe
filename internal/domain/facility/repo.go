package facility

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup references no known facility.
var ErrNotFound = errors.New("facility not found")

type Repository interface {
	Create(ctx context.Context, f *Facility) error
	GetByID(ctx context.Context, id string) (*Facility, error)
	// GetByName matches the facility name exactly. Used by the roster
	// importer for deduplication.
	GetByName(ctx context.Context, name string) (*Facility, error)
	// First returns the oldest facility, the importer's fallback when a row
	// names no facility. ErrNotFound when the collection is empty.
	First(ctx context.Context) (*Facility, error)
	List(ctx context.Context, limit, offset int) ([]*Facility, int, error)
}
