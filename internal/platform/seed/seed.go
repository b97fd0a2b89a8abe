// Package seed loads the demo dataset used by development deployments:
// two facilities, a handful of patients with visit history, and one
// morning round awaiting matching.
package seed

import (
	"context"
	"fmt"

	"github.com/yorisoi/homevisit/internal/domain/facility"
	"github.com/yorisoi/homevisit/internal/domain/note"
	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/domain/round"
)

type Stores struct {
	Facilities facility.Repository
	Patients   patient.Repository
	Rounds     round.Repository
}

// Load inserts the demo dataset. Idempotence is not needed: it runs once
// against a fresh in-memory store at startup.
func Load(ctx context.Context, s Stores) error {
	for _, f := range demoFacilities() {
		if err := s.Facilities.Create(ctx, f); err != nil {
			return fmt.Errorf("seed facility %s: %w", f.ID, err)
		}
	}
	for _, p := range demoPatients() {
		if err := s.Patients.Create(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
	}
	for _, r := range demoRounds() {
		if err := s.Rounds.Create(ctx, r); err != nil {
			return fmt.Errorf("seed round %s: %w", r.ID, err)
		}
	}
	return nil
}

func demoFacilities() []*facility.Facility {
	return []*facility.Facility{
		{ID: "f1", Name: "グリーンヒルズ介護施設"},
		{ID: "f2", Name: "さくらの里ケアホーム"},
	}
}

func demoPatients() []*patient.Patient {
	soapNote := note.ClinicalData{
		Soap: note.Soap{
			Subjective: "食欲は普通。夜間の咳が少し気になる。",
			Objective:  "血圧 128/76、脈拍 72、SpO2 97%。肺雑音なし。",
			Assessment: "状態は安定している。咳は経過観察。",
			Plan:       "次回定期訪問。咳が続く場合は胸部聴診を再評価。",
		},
		HomeVisit: note.HomeVisit{
			BasicInfo:             "2025-05-20 田中一郎",
			ChiefComplaint:        "夜間の咳",
			ObservationTreatment:  "聴診異常なし",
			MedicationInstruction: "定期処方継続",
			NextPlanHandover:      "予定通り",
		},
		PharmacyFocus: note.PharmacyFocus{
			Medications: []note.Medication{
				{Name: "アムロジピン", Dose: "5mg", Route: "経口", Frequency: "1日1回", Status: note.MedicationContinuing},
			},
			Adherence: "良好",
		},
	}

	ulcerNote := note.ClinicalData{
		Soap: note.Soap{
			Subjective: "糖尿病の既往あり。足裏の傷が治らないと訴える。",
			Objective:  "右足底に2cmの潰瘍。周囲に発赤あり。",
			Assessment: "デブリードマンを実施。感染徴候は軽度。",
			Plan:       "週2回の訪問で処置を継続。軟膏を塗布。",
		},
		HomeVisit: note.HomeVisit{
			BasicInfo:             "2025-05-22 鈴木ハル",
			ChiefComplaint:        "足底の潰瘍",
			ObservationTreatment:  "デブリードマン実施、軟膏塗布",
			MedicationInstruction: "定期処方継続",
			NextPlanHandover:      "週2回訪問に変更",
		},
		PharmacyFocus: note.PharmacyFocus{
			Medications: []note.Medication{
				{Name: "メトホルミン", Dose: "500mg", Route: "経口", Frequency: "1日2回", Status: note.MedicationContinuing},
			},
			Adherence: "良好",
		},
		Alerts: note.Alerts{
			RedFlags: []string{"潰瘍の感染拡大に注意"},
		},
	}

	return []*patient.Patient{
		{
			ID: "p1", Name: "田中一郎", Kana: "タナカイチロウ",
			BirthDate: "1942-03-15", Age: 83, Gender: patient.GenderMale,
			AvatarColor: "#4f86c6", FacilityID: "f1", RoomNumber: "101",
			Records: []patient.Record{
				{ID: "rec1", Date: "2025-05-20", ClinicalData: soapNote, Status: patient.RecordApproved},
			},
		},
		{
			ID: "p2", Name: "鈴木ハル", Kana: "スズキハル",
			BirthDate: "1938-11-02", Age: 86, Gender: patient.GenderFemale,
			AvatarColor: "#c65f4f", FacilityID: "f1", RoomNumber: "103",
			Records: []patient.Record{
				{ID: "rec2", Date: "2025-05-22", ClinicalData: ulcerNote, Status: patient.RecordPending},
			},
		},
		{
			ID: "p3", Name: "佐藤美代子", Kana: "サトウミヨコ",
			BirthDate: "1945-07-28", Age: 80, Gender: patient.GenderFemale,
			AvatarColor: "#6b8e23", FacilityID: "f2", RoomNumber: "201",
			Records: []patient.Record{},
		},
	}
}

func demoRounds() []*round.Round {
	return []*round.Round{
		{
			ID: "r1", Date: "2025-06-03", TimeSlot: round.SlotAM,
			FacilityID: "f1", FacilityName: "グリーンヒルズ介護施設",
			Visits: []round.Visit{
				{
					ID: "v1", Order: 1,
					TranscriptSummary:    "血圧の話と夜間の咳について。",
					EstimatedPatientName: "田中様",
					Status:               round.VisitPending,
				},
				{
					ID: "v2", Order: 2,
					TranscriptSummary:    "足の傷の処置について。",
					EstimatedPatientName: "鈴木様",
					Status:               round.VisitPending,
				},
			},
		},
		{
			ID: "r2", Date: "2025-06-03", TimeSlot: round.SlotPM,
			FacilityID: "f2", FacilityName: "さくらの里ケアホーム",
			Visits: []round.Visit{
				{
					ID: "v3", Order: 1,
					TranscriptSummary:    "体調は安定している様子。",
					EstimatedPatientName: "佐藤様",
					Status:               round.VisitPending,
				},
			},
		},
	}
}
