package workspace

import (
	"context"
	"sync"

	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/domain/round"
)

// RoundFinder checks round existence. Satisfied by round.Service.
type RoundFinder interface {
	GetRound(ctx context.Context, id string) (*round.Round, error)
}

// PatientFinder checks patient and record existence. Satisfied by
// patient.Service.
type PatientFinder interface {
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
	GetRecord(ctx context.Context, patientID, recordID string) (*patient.Record, error)
}

// Service holds the session's single selection. The focus is shared
// state for the one signed-in session, so reads and writes are guarded
// by a mutex rather than persisted.
type Service struct {
	rounds   RoundFinder
	patients PatientFinder

	mu      sync.RWMutex
	current Selection
}

func NewService(rounds RoundFinder, patients PatientFinder) *Service {
	return &Service{rounds: rounds, patients: patients, current: None()}
}

func (s *Service) Current() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SelectRound focuses the given round. Any patient focus is cleared.
func (s *Service) SelectRound(ctx context.Context, roundID string) (Selection, error) {
	if _, err := s.rounds.GetRound(ctx, roundID); err != nil {
		return Selection{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = RoundView(roundID)
	return s.current, nil
}

// SelectPatient focuses the given patient chart, optionally on one
// record. Any round focus is cleared.
func (s *Service) SelectPatient(ctx context.Context, patientID, recordID string) (Selection, error) {
	if recordID != "" {
		if _, err := s.patients.GetRecord(ctx, patientID, recordID); err != nil {
			return Selection{}, err
		}
	} else if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return Selection{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = PatientView(patientID, recordID)
	return s.current, nil
}

// Clear drops the selection.
func (s *Service) Clear() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = None()
	return s.current
}
