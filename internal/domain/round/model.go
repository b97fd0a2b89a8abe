package round

import "github.com/yorisoi/homevisit/internal/domain/note"

// Time slots for a round.
const (
	SlotAM = "AM"
	SlotPM = "PM"
)

// Visit lifecycle states. A visit starts pending, is matched to a patient
// exactly once, and may later be approved by a review step outside this
// service.
const (
	VisitPending  = "pending_match"
	VisitMatched  = "matched"
	VisitApproved = "approved"
)

// Round is one scheduled batch of home-visit encounters at a single
// facility on a single date and time slot. The visit roster is fixed at
// creation; only the visits themselves change state.
type Round struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	TimeSlot     string  `json:"time_slot"`
	FacilityID   string  `json:"facility_id"`
	FacilityName string  `json:"facility_name"`
	Visits       []Visit `json:"visits"`
}

// Visit is one patient encounter within a round.
type Visit struct {
	ID                   string             `json:"id"`
	Order                int                `json:"order"`
	TranscriptSummary    string             `json:"transcript_summary"`
	EstimatedPatientName string             `json:"estimated_patient_name"`
	ConfirmedPatientID   string             `json:"confirmed_patient_id,omitempty"`
	ClinicalData         *note.ClinicalData `json:"clinicalData,omitempty"`
	Transcript           string             `json:"transcript,omitempty"`
	Status               string             `json:"status"`
}

// VisitPatch carries a partial update for a visit. Nil fields are left
// untouched, so a bulk regenerate can replace the transcript summary,
// the SOAP note, and the family-facing text in one atomic patch.
type VisitPatch struct {
	TranscriptSummary    *string            `json:"transcript_summary,omitempty"`
	EstimatedPatientName *string            `json:"estimated_patient_name,omitempty"`
	ConfirmedPatientID   *string            `json:"confirmed_patient_id,omitempty"`
	ClinicalData         *note.ClinicalData `json:"clinicalData,omitempty"`
	Transcript           *string            `json:"transcript,omitempty"`
	Status               *string            `json:"status,omitempty"`
}

func (r *Round) clone() *Round {
	cp := *r
	cp.Visits = make([]Visit, len(r.Visits))
	for i, v := range r.Visits {
		cp.Visits[i] = v
		if v.ClinicalData != nil {
			data := v.ClinicalData.Clone()
			cp.Visits[i].ClinicalData = &data
		}
	}
	return &cp
}

func (r *Round) visit(visitID string) *Visit {
	for i := range r.Visits {
		if r.Visits[i].ID == visitID {
			return &r.Visits[i]
		}
	}
	return nil
}

func (p VisitPatch) apply(v *Visit) {
	if p.TranscriptSummary != nil {
		v.TranscriptSummary = *p.TranscriptSummary
	}
	if p.EstimatedPatientName != nil {
		v.EstimatedPatientName = *p.EstimatedPatientName
	}
	if p.ConfirmedPatientID != nil {
		v.ConfirmedPatientID = *p.ConfirmedPatientID
	}
	if p.ClinicalData != nil {
		data := p.ClinicalData.Clone()
		v.ClinicalData = &data
	}
	if p.Transcript != nil {
		v.Transcript = *p.Transcript
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
}
