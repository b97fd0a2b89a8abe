package patient

import (
	"time"

	"github.com/yorisoi/homevisit/internal/domain/note"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Record statuses.
const (
	RecordApproved = "approved"
	RecordPending  = "pending"
)

// DateLayout is the wire format for birth dates and record dates.
const DateLayout = "2006-01-02"

// SentinelBirthDate stands in for a missing birth date on import.
const SentinelBirthDate = "1900-01-01"

// Patient is one person under care. Age is derived from BirthDate and must
// never be edited directly; it is recomputed wherever BirthDate changes.
type Patient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kana        string   `json:"kana"`
	BirthDate   string   `json:"birthDate"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	AvatarColor string   `json:"avatarColor"`
	FacilityID  string   `json:"facility_id"`
	RoomNumber  string   `json:"room_number,omitempty"`
	Records     []Record `json:"records"`
}

// Record is one historical visit note in a patient's chart. The history is
// append-only; records are never deleted.
type Record struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Transcript   string            `json:"transcript"`
	ClinicalData note.ClinicalData `json:"clinicalData"`
	Status       string            `json:"status"`
}

// NormalizeGender collapses the accepted import spellings onto the two
// stored values. Anything unrecognized, including the empty string, becomes
// female; that default is deliberate and preserved from the product's
// current behavior.
func NormalizeGender(raw string) string {
	switch raw {
	case "male", "男性":
		return GenderMale
	case "female", "女性":
		return GenderFemale
	default:
		return GenderFemale
	}
}

// DeriveAge computes full years between birthDate and now. Unparsable input
// yields zero.
func DeriveAge(birthDate string, now time.Time) int {
	born, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// header returns a copy without the record history.
func (p *Patient) header() *Patient {
	cp := *p
	cp.Records = []Record{}
	return &cp
}

func (p *Patient) clone() *Patient {
	cp := *p
	cp.Records = make([]Record, len(p.Records))
	for i, rec := range p.Records {
		cp.Records[i] = rec
		cp.Records[i].ClinicalData = rec.ClinicalData.Clone()
	}
	return &cp
}
