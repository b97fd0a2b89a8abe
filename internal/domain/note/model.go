// Package note defines the structured clinical note shared by visit
// documentation and per-patient record history. Field names follow the
// editor's data-shape contract, so a note round-trips unchanged through
// the front-end.
package note

import "fmt"

// Medication status values as they appear in the note editor.
const (
	MedicationStarted      = "開始"
	MedicationContinuing   = "継続"
	MedicationDiscontinued = "中止"
	MedicationChanged      = "変更"
)

// Medication is a single entry in the pharmacy focus medication list.
type Medication struct {
	Name         string `json:"name"`
	Dose         string `json:"dose"`
	Route        string `json:"route"`
	Frequency    string `json:"frequency"`
	Status       string `json:"status"`
	ReasonOrNote string `json:"reason_or_note"`
}

// Soap holds the four sections of a SOAP note.
type Soap struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// HomeVisit holds the free-text home-visit report fields.
type HomeVisit struct {
	BasicInfo             string `json:"basic_info"`
	ChiefComplaint        string `json:"chief_complaint"`
	ObservationTreatment  string `json:"observation_treatment"`
	MedicationInstruction string `json:"medication_instruction"`
	NextPlanHandover      string `json:"next_plan_handover"`
}

// PharmacyFocus holds pharmacist-facing review fields.
type PharmacyFocus struct {
	Medications         []Medication `json:"medications"`
	Adherence           string       `json:"adherence"`
	SideEffects         []string     `json:"side_effects"`
	DrugRelatedProblems []string     `json:"drug_related_problems"`
	LabsAndMonitoring   []string     `json:"labs_and_monitoring"`
	PatientEducation    []string     `json:"patient_education"`
	FollowUp            string       `json:"follow_up"`
}

// Alerts holds escalation flags surfaced to the physician.
type Alerts struct {
	RedFlags               []string `json:"red_flags"`
	NeedToContactPhysician []string `json:"need_to_contact_physician"`
}

// Meta holds cross-cutting note metadata.
type Meta struct {
	MainProblems    []string `json:"main_problems"`
	NoteForPharmacy string   `json:"note_for_pharmacy"`
}

// FamilyShare is the plain-language rephrasing intended for family readers.
type FamilyShare struct {
	RephrasedContent string `json:"rephrased_content"`
}

// ClinicalData is the full structured note attached to a visit or record.
// Summary is soft-capped at 100 display characters; storage never rejects
// longer values, the editor only warns.
type ClinicalData struct {
	Soap          Soap          `json:"soap"`
	HomeVisit     HomeVisit     `json:"home_visit"`
	PharmacyFocus PharmacyFocus `json:"pharmacy_focus"`
	Alerts        Alerts        `json:"alerts"`
	Meta          Meta          `json:"meta"`
	FamilyShare   *FamilyShare  `json:"family_share,omitempty"`
	Summary       string        `json:"summary,omitempty"`
}

// Clone returns a deep copy. Stores hand out clones so one caller's edits
// never alias another's view of the same note.
func (c ClinicalData) Clone() ClinicalData {
	cp := c
	cp.PharmacyFocus.Medications = append([]Medication(nil), c.PharmacyFocus.Medications...)
	cp.PharmacyFocus.SideEffects = append([]string(nil), c.PharmacyFocus.SideEffects...)
	cp.PharmacyFocus.DrugRelatedProblems = append([]string(nil), c.PharmacyFocus.DrugRelatedProblems...)
	cp.PharmacyFocus.LabsAndMonitoring = append([]string(nil), c.PharmacyFocus.LabsAndMonitoring...)
	cp.PharmacyFocus.PatientEducation = append([]string(nil), c.PharmacyFocus.PatientEducation...)
	cp.Alerts.RedFlags = append([]string(nil), c.Alerts.RedFlags...)
	cp.Alerts.NeedToContactPhysician = append([]string(nil), c.Alerts.NeedToContactPhysician...)
	cp.Meta.MainProblems = append([]string(nil), c.Meta.MainProblems...)
	if c.FamilyShare != nil {
		fs := *c.FamilyShare
		cp.FamilyShare = &fs
	}
	return cp
}

// Default returns the boilerplate note materialized when a visit is first
// matched to a patient. The wording is fixed; it is a placeholder for staff
// to edit, not generated content.
func Default(patientName, date string) *ClinicalData {
	return &ClinicalData{
		Soap: Soap{
			Subjective: "特になし。",
			Objective:  "バイタル安定。",
			Assessment: "現状維持。",
			Plan:       "次回定期訪問。",
		},
		HomeVisit: HomeVisit{
			BasicInfo:             fmt.Sprintf("%s %s", date, patientName),
			ChiefComplaint:        "なし",
			ObservationTreatment:  "特記事項なし",
			MedicationInstruction: "定期処方継続",
			NextPlanHandover:      "予定通り",
		},
		PharmacyFocus: PharmacyFocus{
			Medications: []Medication{},
			Adherence:   "良好",
		},
	}
}
