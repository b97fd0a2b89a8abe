package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/yorisoi/homevisit/internal/domain/note"
	"github.com/yorisoi/homevisit/internal/platform/idgen"
	"github.com/yorisoi/homevisit/internal/platform/summarizer"
)

type Service struct {
	repo Repository
	ids  *idgen.Source
	sum  summarizer.Summarizer
}

func NewService(repo Repository, ids *idgen.Source, sum summarizer.Summarizer) *Service {
	return &Service{repo: repo, ids: ids, sum: sum}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.FacilityID == "" {
		return fmt.Errorf("facility_id is required")
	}
	if p.ID == "" {
		p.ID = s.ids.NewID()
	}
	p.Gender = NormalizeGender(p.Gender)
	p.Age = DeriveAge(p.BirthDate, time.Now())
	if p.BirthDate == "" {
		p.BirthDate = SentinelBirthDate
	}
	return s.repo.Create(ctx, p)
}

// ImportPatients lands one roster import batch. Callers have already
// materialized ids, facilities, and derived fields.
func (s *Service) ImportPatients(ctx context.Context, ps []*Patient) error {
	return s.repo.CreateBatch(ctx, ps)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListPatientsByFacility(ctx context.Context, facilityID string) ([]*Patient, error) {
	return s.repo.ListByFacility(ctx, facilityID)
}

func (s *Service) GetRecord(ctx context.Context, patientID, recordID string) (*Record, error) {
	return s.repo.GetRecord(ctx, patientID, recordID)
}

// AppendRecord adds one visit note to the patient's history. The history is
// append-only; there is no update or delete path for whole records.
func (s *Service) AppendRecord(ctx context.Context, patientID string, rec *Record) error {
	if rec.Date == "" {
		return fmt.Errorf("date is required")
	}
	if rec.ID == "" {
		rec.ID = s.ids.NewID()
	}
	if rec.Status == "" {
		rec.Status = RecordPending
	}
	if rec.Status != RecordPending && rec.Status != RecordApproved {
		return fmt.Errorf("invalid record status: %s", rec.Status)
	}
	return s.repo.AppendRecord(ctx, patientID, rec)
}

// UpdateRecordNote replaces the structured note of one record, the edit
// path of the note editor.
func (s *Service) UpdateRecordNote(ctx context.Context, patientID, recordID string, data note.ClinicalData) error {
	return s.repo.UpdateRecordData(ctx, patientID, recordID, data)
}

// SummarizeRecord regenerates the record's synopsis from its current note
// content and writes it back. Returns the generated text.
func (s *Service) SummarizeRecord(ctx context.Context, patientID, recordID string) (string, error) {
	rec, err := s.repo.GetRecord(ctx, patientID, recordID)
	if err != nil {
		return "", err
	}
	summary := s.sum.Summarize(rec.ClinicalData)
	rec.ClinicalData.Summary = summary
	if err := s.repo.UpdateRecordData(ctx, patientID, recordID, rec.ClinicalData); err != nil {
		return "", err
	}
	return summary, nil
}
