// Package workspace tracks the staff member's current navigation focus:
// either a round being worked through or a patient chart being read,
// never both. Modeling the selection as a single tagged value makes the
// invalid round-plus-patient state unrepresentable.
package workspace

// Selection modes.
const (
	ModeNone    = "none"
	ModeRound   = "round"
	ModePatient = "patient"
)

// Selection is the current focus. RoundID is set only in round mode;
// PatientID (and optionally RecordID) only in patient mode.
type Selection struct {
	Mode      string `json:"mode"`
	RoundID   string `json:"round_id,omitempty"`
	PatientID string `json:"patient_id,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
}

// None is the empty selection.
func None() Selection {
	return Selection{Mode: ModeNone}
}

// RoundView focuses a round, dropping any patient focus.
func RoundView(roundID string) Selection {
	return Selection{Mode: ModeRound, RoundID: roundID}
}

// PatientView focuses a patient chart, optionally on one record,
// dropping any round focus.
func PatientView(patientID, recordID string) Selection {
	return Selection{Mode: ModePatient, PatientID: patientID, RecordID: recordID}
}
