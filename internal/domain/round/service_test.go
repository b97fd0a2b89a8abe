package round

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yorisoi/homevisit/internal/domain/note"
	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/platform/idgen"
	"github.com/yorisoi/homevisit/internal/platform/summarizer"
)

type mockDirectory struct {
	patients map[string]*patient.Patient
}

func (m *mockDirectory) GetPatient(_ context.Context, id string) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func (m *mockDirectory) ListPatientsByFacility(_ context.Context, facilityID string) ([]*patient.Patient, error) {
	var result []*patient.Patient
	for _, p := range m.patients {
		if p.FacilityID == facilityID {
			result = append(result, p)
		}
	}
	return result, nil
}

func newTestService(patients ...*patient.Patient) *Service {
	dir := &mockDirectory{patients: make(map[string]*patient.Patient)}
	for _, p := range patients {
		dir.patients[p.ID] = p
	}
	return NewService(NewRepoMem(), dir, idgen.New(idgen.SystemClock{}), summarizer.NewRuleBased())
}

func seedRound(t *testing.T, svc *Service) *Round {
	t.Helper()
	r := &Round{
		Date:       "2025-06-10",
		TimeSlot:   SlotAM,
		FacilityID: "f1",
		Visits: []Visit{
			{EstimatedPatientName: "田中様", TranscriptSummary: "血圧の相談。"},
			{EstimatedPatientName: "佐藤様"},
		},
	}
	if err := svc.CreateRound(context.Background(), r); err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return r
}

func TestCreateRound(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)

	if r.ID == "" {
		t.Error("expected round id to be assigned")
	}
	for i, v := range r.Visits {
		if v.ID == "" {
			t.Errorf("visit %d: expected id to be assigned", i)
		}
		if v.Status != VisitPending {
			t.Errorf("visit %d: expected default status pending_match, got %s", i, v.Status)
		}
		if v.Order != i+1 {
			t.Errorf("visit %d: expected order %d, got %d", i, i+1, v.Order)
		}
	}
}

func TestCreateRound_Validation(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name string
		r    *Round
	}{
		{"missing date", &Round{TimeSlot: SlotAM, FacilityID: "f1"}},
		{"bad time slot", &Round{Date: "2025-06-10", TimeSlot: "NOON", FacilityID: "f1"}},
		{"missing facility", &Round{Date: "2025-06-10", TimeSlot: SlotPM}},
	}
	for _, tc := range cases {
		if err := svc.CreateRound(context.Background(), tc.r); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestConfirmMatch(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "田中太郎", FacilityID: "f1"})
	r := seedRound(t, svc)

	v, err := svc.ConfirmMatch(context.Background(), r.ID, r.Visits[0].ID, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != VisitMatched {
		t.Errorf("expected status matched, got %s", v.Status)
	}
	if v.ConfirmedPatientID != "p1" {
		t.Errorf("expected confirmed_patient_id p1, got %s", v.ConfirmedPatientID)
	}
	if v.ClinicalData == nil {
		t.Fatal("expected default clinical note to be materialized")
	}
	if v.ClinicalData.Soap.Subjective != "特になし。" {
		t.Errorf("unexpected default subjective: %q", v.ClinicalData.Soap.Subjective)
	}
	if !strings.Contains(v.ClinicalData.HomeVisit.BasicInfo, "田中太郎") {
		t.Errorf("expected default note to reference the patient, got %q", v.ClinicalData.HomeVisit.BasicInfo)
	}
	if !strings.Contains(v.ClinicalData.HomeVisit.BasicInfo, r.Date) {
		t.Errorf("expected default note to carry the round date, got %q", v.ClinicalData.HomeVisit.BasicInfo)
	}
}

func TestConfirmMatch_PreservesExistingNote(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "田中太郎", FacilityID: "f1"})
	r := seedRound(t, svc)
	visitID := r.Visits[0].ID

	first, err := svc.ConfirmMatch(context.Background(), r.ID, visitID, "p1")
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	// Edit the note, then re-confirm. The edit must survive.
	edited := first.ClinicalData.Clone()
	edited.Soap.Subjective = "足の痛みを訴える。"
	if _, err := svc.UpdateVisit(context.Background(), r.ID, visitID, VisitPatch{ClinicalData: &edited}); err != nil {
		t.Fatalf("update visit: %v", err)
	}

	second, err := svc.ConfirmMatch(context.Background(), r.ID, visitID, "p1")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if second.ClinicalData.Soap.Subjective != "足の痛みを訴える。" {
		t.Errorf("re-confirming overwrote the clinical note: %q", second.ClinicalData.Soap.Subjective)
	}
}

func TestConfirmMatch_NoteNotRegenerated(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "田中太郎", FacilityID: "f1"})
	r := seedRound(t, svc)
	visitID := r.Visits[0].ID

	if _, err := svc.ConfirmMatch(context.Background(), r.ID, visitID, "p1"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	var before *note.ClinicalData
	svc.repo.UpdateVisit(context.Background(), r.ID, visitID, func(v *Visit) error {
		before = v.ClinicalData
		return nil
	})

	if _, err := svc.ConfirmMatch(context.Background(), r.ID, visitID, "p1"); err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	var after *note.ClinicalData
	svc.repo.UpdateVisit(context.Background(), r.ID, visitID, func(v *Visit) error {
		after = v.ClinicalData
		return nil
	})

	if before != after {
		t.Error("second confirm replaced the stored clinical note")
	}
}

func TestConfirmMatch_PatientNotFound(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)

	_, err := svc.ConfirmMatch(context.Background(), r.ID, r.Visits[0].ID, "missing")
	if !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("expected patient.ErrNotFound, got %v", err)
	}

	v, _ := svc.GetVisit(context.Background(), r.ID, r.Visits[0].ID)
	if v.Status != VisitPending {
		t.Errorf("failed confirm must not change visit state, got %s", v.Status)
	}
}

func TestConfirmMatch_RoundNotFound(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "x", FacilityID: "f1"})

	_, err := svc.ConfirmMatch(context.Background(), "missing", "v1", "p1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmMatch_VisitNotInRound(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "x", FacilityID: "f1"})
	r := seedRound(t, svc)

	_, err := svc.ConfirmMatch(context.Background(), r.ID, "not-a-visit", "p1")
	if !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("expected ErrVisitNotFound, got %v", err)
	}
}

func TestUpdateVisit_PartialPatch(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)
	visitID := r.Visits[0].ID

	summary := "新しい要約。"
	v, err := svc.UpdateVisit(context.Background(), r.ID, visitID, VisitPatch{TranscriptSummary: &summary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.TranscriptSummary != "新しい要約。" {
		t.Errorf("expected patched summary, got %q", v.TranscriptSummary)
	}
	if v.EstimatedPatientName != "田中様" {
		t.Errorf("untouched field changed: %q", v.EstimatedPatientName)
	}
	if v.Status != VisitPending {
		t.Errorf("untouched status changed: %q", v.Status)
	}
}

func TestUpdateVisit_AtomicRegenerate(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)
	visitID := r.Visits[0].ID

	summary := "再生成された要約。"
	data := note.Default("田中太郎", r.Date)
	data.Soap.Subjective = "再生成された主訴。"
	data.FamilyShare = &note.FamilyShare{RephrasedContent: "ご家族向けの説明。"}

	v, err := svc.UpdateVisit(context.Background(), r.ID, visitID, VisitPatch{
		TranscriptSummary: &summary,
		ClinicalData:      data,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.TranscriptSummary != summary {
		t.Errorf("expected new transcript summary, got %q", v.TranscriptSummary)
	}
	if v.ClinicalData == nil || v.ClinicalData.Soap.Subjective != "再生成された主訴。" {
		t.Error("expected clinical note replaced in the same patch")
	}
	if v.ClinicalData.FamilyShare == nil || v.ClinicalData.FamilyShare.RephrasedContent != "ご家族向けの説明。" {
		t.Error("expected family share replaced in the same patch")
	}
}

func TestUpdateVisit_InvalidStatus(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)

	bad := "bogus"
	if _, err := svc.UpdateVisit(context.Background(), r.ID, r.Visits[0].ID, VisitPatch{Status: &bad}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestUpdateVisit_ApprovedIsValid(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)

	approved := VisitApproved
	v, err := svc.UpdateVisit(context.Background(), r.ID, r.Visits[0].ID, VisitPatch{Status: &approved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != VisitApproved {
		t.Errorf("expected approved, got %s", v.Status)
	}
}

func TestCandidatePatients_FacilityScoped(t *testing.T) {
	svc := newTestService(
		&patient.Patient{ID: "p1", Name: "A", FacilityID: "f1"},
		&patient.Patient{ID: "p2", Name: "B", FacilityID: "f2"},
		&patient.Patient{ID: "p3", Name: "C", FacilityID: "f1"},
	)
	r := seedRound(t, svc)

	candidates, err := svc.CandidatePatients(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for _, p := range candidates {
		if p.FacilityID != "f1" {
			t.Errorf("candidate %s outside the round's facility", p.ID)
		}
	}
}

func TestSummarizeVisit(t *testing.T) {
	svc := newTestService(&patient.Patient{ID: "p1", Name: "田中太郎", FacilityID: "f1"})
	r := seedRound(t, svc)
	visitID := r.Visits[0].ID

	if _, err := svc.ConfirmMatch(context.Background(), r.ID, visitID, "p1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	summary, err := svc.SummarizeVisit(context.Background(), r.ID, visitID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "S:特になし。 O:バイタル安定。 A:現状維持。 P:次回定期訪問。"
	if summary != want {
		t.Errorf("expected %q, got %q", want, summary)
	}

	v, _ := svc.GetVisit(context.Background(), r.ID, visitID)
	if v.ClinicalData.Summary != want {
		t.Errorf("expected summary written back, got %q", v.ClinicalData.Summary)
	}
}

func TestSummarizeVisit_NoNote(t *testing.T) {
	svc := newTestService()
	r := seedRound(t, svc)

	if _, err := svc.SummarizeVisit(context.Background(), r.ID, r.Visits[0].ID); err == nil {
		t.Error("expected error for visit without a clinical note")
	}
}

func TestRepoMem_NoAliasing(t *testing.T) {
	repo := NewRepoMem()

	repo.Create(context.Background(), &Round{
		ID: "r1", Date: "2025-06-10", TimeSlot: SlotAM, FacilityID: "f1",
		Visits: []Visit{{ID: "v1", Status: VisitPending, ClinicalData: note.Default("田中太郎", "2025-06-10")}},
	})

	first, _ := repo.GetByID(context.Background(), "r1")
	first.Visits[0].ClinicalData.Soap.Subjective = "changed"

	second, _ := repo.GetByID(context.Background(), "r1")
	if second.Visits[0].ClinicalData.Soap.Subjective == "changed" {
		t.Error("mutating a fetched copy must not affect the store")
	}
}
