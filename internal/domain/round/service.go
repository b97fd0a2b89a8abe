package round

import (
	"context"
	"fmt"

	"github.com/yorisoi/homevisit/internal/domain/note"
	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/platform/idgen"
	"github.com/yorisoi/homevisit/internal/platform/summarizer"
)

// PatientDirectory is the slice of the patient service the matching
// workflow needs: existence checks for confirmation and the candidate
// pool for a round's facility.
type PatientDirectory interface {
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
	ListPatientsByFacility(ctx context.Context, facilityID string) ([]*patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	ids      *idgen.Source
	sum      summarizer.Summarizer
}

func NewService(repo Repository, patients PatientDirectory, ids *idgen.Source, sum summarizer.Summarizer) *Service {
	return &Service{repo: repo, patients: patients, ids: ids, sum: sum}
}

func (s *Service) CreateRound(ctx context.Context, r *Round) error {
	if r.Date == "" {
		return fmt.Errorf("date is required")
	}
	if r.TimeSlot != SlotAM && r.TimeSlot != SlotPM {
		return fmt.Errorf("time_slot must be AM or PM")
	}
	if r.FacilityID == "" {
		return fmt.Errorf("facility_id is required")
	}
	if r.ID == "" {
		r.ID = s.ids.NewID()
	}
	for i := range r.Visits {
		v := &r.Visits[i]
		if v.ID == "" {
			v.ID = s.ids.NewID()
		}
		if v.Order == 0 {
			v.Order = i + 1
		}
		if v.Status == "" {
			v.Status = VisitPending
		}
		if v.Status != VisitPending && v.Status != VisitMatched && v.Status != VisitApproved {
			return fmt.Errorf("invalid visit status: %s", v.Status)
		}
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) GetRound(ctx context.Context, id string) (*Round, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListRounds(ctx context.Context, limit, offset int) ([]*Round, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListRoundsByFacility(ctx context.Context, facilityID string) ([]*Round, error) {
	return s.repo.ListByFacility(ctx, facilityID)
}

func (s *Service) GetVisit(ctx context.Context, roundID, visitID string) (*Visit, error) {
	return s.repo.GetVisit(ctx, roundID, visitID)
}

// ConfirmMatch binds a visit to a patient. The visit must belong to the
// round and the patient must exist. On the first confirmation of a visit
// with no clinical note, a default note keyed by patient name and round
// date is materialized; an existing note is never overwritten, so
// re-confirming is idempotent with respect to the note.
func (s *Service) ConfirmMatch(ctx context.Context, roundID, visitID, patientID string) (*Visit, error) {
	r, err := s.repo.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateVisit(ctx, roundID, visitID, func(v *Visit) error {
		v.ConfirmedPatientID = p.ID
		v.Status = VisitMatched
		if v.ClinicalData == nil {
			v.ClinicalData = note.Default(p.Name, r.Date)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetVisit(ctx, roundID, visitID)
}

// UpdateVisit merges the given fields into the visit as one atomic patch.
func (s *Service) UpdateVisit(ctx context.Context, roundID, visitID string, patch VisitPatch) (*Visit, error) {
	if patch.Status != nil {
		st := *patch.Status
		if st != VisitPending && st != VisitMatched && st != VisitApproved {
			return nil, fmt.Errorf("invalid visit status: %s", st)
		}
	}
	err := s.repo.UpdateVisit(ctx, roundID, visitID, func(v *Visit) error {
		patch.apply(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetVisit(ctx, roundID, visitID)
}

// CandidatePatients returns the patients eligible for matching against a
// round's visits: those registered at the round's facility.
func (s *Service) CandidatePatients(ctx context.Context, roundID string) ([]*patient.Patient, error) {
	r, err := s.repo.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return s.patients.ListPatientsByFacility(ctx, r.FacilityID)
}

// SummarizeVisit regenerates the synopsis of the visit's clinical note
// and writes it back into the note.
func (s *Service) SummarizeVisit(ctx context.Context, roundID, visitID string) (string, error) {
	var summary string
	err := s.repo.UpdateVisit(ctx, roundID, visitID, func(v *Visit) error {
		if v.ClinicalData == nil {
			return fmt.Errorf("visit has no clinical note")
		}
		summary = s.sum.Summarize(*v.ClinicalData)
		v.ClinicalData.Summary = summary
		return nil
	})
	if err != nil {
		return "", err
	}
	return summary, nil
}
