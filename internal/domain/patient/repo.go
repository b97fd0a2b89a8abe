package patient

import (
	"context"
	"errors"

	"github.com/yorisoi/homevisit/internal/domain/note"
)

var (
	// ErrNotFound is returned when a lookup references no known patient.
	ErrNotFound = errors.New("patient not found")
	// ErrRecordNotFound is returned when a patient exists but the record
	// does not.
	ErrRecordNotFound = errors.New("record not found")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// CreateBatch appends a whole import batch as one mutation; either all
	// patients land or none do.
	CreateBatch(ctx context.Context, ps []*Patient) error
	// GetByID returns the patient with the full record history.
	GetByID(ctx context.Context, id string) (*Patient, error)
	// List and ListByFacility return patient headers only; Records is empty.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*Patient, error)

	// Records (append-only history)
	AppendRecord(ctx context.Context, patientID string, rec *Record) error
	GetRecord(ctx context.Context, patientID, recordID string) (*Record, error)
	UpdateRecordData(ctx context.Context, patientID, recordID string, data note.ClinicalData) error
}
