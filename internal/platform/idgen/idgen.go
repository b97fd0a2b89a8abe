// Package idgen mints entity identifiers. Imported entities carry a
// timestamped synthetic id; the wall clock is injected so batches are
// deterministic under test.
package idgen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts wall-clock reads.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Source mints ids for one import batch or entity creation site.
type Source struct {
	clock Clock
}

// New returns a Source backed by the given clock.
func New(clock Clock) *Source {
	return &Source{clock: clock}
}

// ImportedFacilityID returns the synthetic id for the seq-th facility
// created within the current import batch.
func (s *Source) ImportedFacilityID(seq int) string {
	return fmt.Sprintf("f_imported_%d_%d", s.clock.Now().UnixMilli(), seq)
}

// ImportedPatientID returns the synthetic id for the patient materialized
// from the index-th data row of the current import batch.
func (s *Source) ImportedPatientID(index int) string {
	return fmt.Sprintf("p_imported_%d_%d", s.clock.Now().UnixMilli(), index)
}

// NewID returns a random id for entities created outside an import.
func (s *Source) NewID() string {
	return uuid.NewString()
}
