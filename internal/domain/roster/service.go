package roster

import (
	"context"
	"errors"
	"time"

	"github.com/yorisoi/homevisit/internal/domain/facility"
	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/platform/idgen"
)

// FallbackFacilityID is assigned when a row has no facility cell and no
// facility exists yet. The sentinel facility is created on first use so
// the patient's facility_id always resolves.
const (
	FallbackFacilityID   = "f_unknown"
	FallbackFacilityName = "未登録"
)

const importedAvatarColor = "#888888"

// FacilityStore is the slice of the facility repository the importer
// needs. Satisfied by facility.Repository.
type FacilityStore interface {
	Create(ctx context.Context, f *facility.Facility) error
	GetByName(ctx context.Context, name string) (*facility.Facility, error)
	First(ctx context.Context) (*facility.Facility, error)
}

// PatientImporter lands a parsed batch. Satisfied by patient.Service.
type PatientImporter interface {
	ImportPatients(ctx context.Context, ps []*patient.Patient) error
}

// Result reports what one import run changed.
type Result struct {
	ImportedPatients int `json:"imported_patients"`
	NewFacilities    int `json:"new_facilities"`
}

type Service struct {
	facilities FacilityStore
	patients   PatientImporter
	ids        *idgen.Source
	now        func() time.Time
}

func NewService(facilities FacilityStore, patients PatientImporter, ids *idgen.Source) *Service {
	return &Service{facilities: facilities, patients: patients, ids: ids, now: time.Now}
}

// Ingest imports roster rows under the given column mapping.
//
// Facilities are resolved by exact name against the existing set plus any
// facility already synthesized earlier in the same batch, so duplicate
// facility names within one file collapse to a single new facility. Rows
// without a facility cell fall back to the first facility in the working
// set, or to the f_unknown sentinel (created on demand) when there is
// none. Rows with an empty name are skipped. Nothing is written when no
// row qualifies.
func (s *Service) Ingest(ctx context.Context, content string, mapping Mapping) (*Result, error) {
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	first, err := s.facilities.First(ctx)
	if err != nil && !errors.Is(err, facility.ErrNotFound) {
		return nil, err
	}

	var (
		newFacilities []*facility.Facility
		newPatients   []*patient.Patient
	)
	fallbackID := func() string {
		if first != nil {
			return first.ID
		}
		if len(newFacilities) > 0 {
			return newFacilities[0].ID
		}
		// No facility anywhere yet. Persist the sentinel so the
		// patient's facility reference stays valid under a store
		// that enforces it.
		newFacilities = append(newFacilities, &facility.Facility{
			ID:   FallbackFacilityID,
			Name: FallbackFacilityName,
		})
		return FallbackFacilityID
	}

	for index, line := range lines[1:] {
		row := s.mapRow(line, mapping)
		if row[FieldName] == "" {
			continue
		}

		facilityID := ""
		if name := row[FieldFacility]; name != "" {
			facilityID, err = s.resolveFacility(ctx, name, &newFacilities)
			if err != nil {
				return nil, err
			}
		} else {
			facilityID = fallbackID()
		}

		id := row[FieldID]
		if id == "" {
			id = s.ids.ImportedPatientID(index)
		}
		birthDate := row[FieldBirthDate]
		p := &patient.Patient{
			ID:          id,
			Name:        row[FieldName],
			Kana:        row[FieldKana],
			BirthDate:   birthDate,
			Age:         patient.DeriveAge(birthDate, s.now()),
			Gender:      patient.NormalizeGender(row[FieldGender]),
			AvatarColor: importedAvatarColor,
			FacilityID:  facilityID,
			RoomNumber:  row[FieldRoomNumber],
			Records:     []patient.Record{},
		}
		if p.BirthDate == "" {
			p.BirthDate = patient.SentinelBirthDate
		}
		newPatients = append(newPatients, p)
	}

	if len(newPatients) == 0 {
		return &Result{}, nil
	}

	for _, f := range newFacilities {
		if err := s.facilities.Create(ctx, f); err != nil {
			return nil, err
		}
	}
	if err := s.patients.ImportPatients(ctx, newPatients); err != nil {
		return nil, err
	}
	return &Result{ImportedPatients: len(newPatients), NewFacilities: len(newFacilities)}, nil
}

// resolveFacility finds a facility by exact name, checking the batch's
// own new facilities before the store, and synthesizes one on miss.
func (s *Service) resolveFacility(ctx context.Context, name string, created *[]*facility.Facility) (string, error) {
	for _, f := range *created {
		if f.Name == name {
			return f.ID, nil
		}
	}
	f, err := s.facilities.GetByName(ctx, name)
	if err == nil {
		return f.ID, nil
	}
	if !errors.Is(err, facility.ErrNotFound) {
		return "", err
	}
	nf := &facility.Facility{
		ID:   s.ids.ImportedFacilityID(len(*created)),
		Name: name,
	}
	*created = append(*created, nf)
	return nf.ID, nil
}

func (s *Service) mapRow(line string, mapping Mapping) map[Field]string {
	cells := splitCells(line)
	row := make(map[Field]string, len(mapping))
	for index, field := range mapping {
		if field == FieldIgnore {
			continue
		}
		if index >= 0 && index < len(cells) {
			row[field] = cells[index]
		}
	}
	return row
}
