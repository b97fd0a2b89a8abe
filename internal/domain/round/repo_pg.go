package round

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yorisoi/homevisit/internal/domain/note"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, rd *Round) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO round (id, date, time_slot, facility_id, facility_name)
		VALUES ($1,$2,$3,$4,$5)`,
		rd.ID, rd.Date, rd.TimeSlot, rd.FacilityID, rd.FacilityName,
	); err != nil {
		return err
	}
	for _, v := range rd.Visits {
		raw, err := marshalClinicalData(v.ClinicalData)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO visit (id, round_id, visit_order, transcript_summary,
				estimated_patient_name, confirmed_patient_id, clinical_data, transcript, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			v.ID, rd.ID, v.Order, v.TranscriptSummary,
			v.EstimatedPatientName, nullString(v.ConfirmedPatientID), raw, v.Transcript, v.Status,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Round, error) {
	var rd Round
	err := r.pool.QueryRow(ctx, `
		SELECT id, date, time_slot, facility_id, facility_name
		FROM round WHERE id = $1`, id).
		Scan(&rd.ID, &rd.Date, &rd.TimeSlot, &rd.FacilityID, &rd.FacilityName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rd.Visits, err = r.visitsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Round, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM round`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, time_slot, facility_id, facility_name
		FROM round ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repoPG) ListByFacility(ctx context.Context, facilityID string) ([]*Round, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, time_slot, facility_id, facility_name
		FROM round WHERE facility_id = $1 ORDER BY created_at, id`, facilityID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *repoPG) UpdateVisit(ctx context.Context, roundID, visitID string, fn func(*Visit) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM round WHERE id = $1`, roundID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	v, err := scanVisit(tx.QueryRow(ctx, visitSelect+` WHERE round_id = $1 AND id = $2 FOR UPDATE`, roundID, visitID))
	if err != nil {
		return err
	}
	if err := fn(v); err != nil {
		return err
	}
	raw, err := marshalClinicalData(v.ClinicalData)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE visit SET transcript_summary = $3, estimated_patient_name = $4,
			confirmed_patient_id = $5, clinical_data = $6, transcript = $7, status = $8
		WHERE round_id = $1 AND id = $2`,
		roundID, visitID, v.TranscriptSummary, v.EstimatedPatientName,
		nullString(v.ConfirmedPatientID), raw, v.Transcript, v.Status,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetVisit(ctx context.Context, roundID, visitID string) (*Visit, error) {
	var exists int
	if err := r.pool.QueryRow(ctx, `SELECT 1 FROM round WHERE id = $1`, roundID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return scanVisit(r.pool.QueryRow(ctx, visitSelect+` WHERE round_id = $1 AND id = $2`, roundID, visitID))
}

const visitSelect = `
	SELECT id, visit_order, transcript_summary, estimated_patient_name,
		confirmed_patient_id, clinical_data, transcript, status
	FROM visit`

func (r *repoPG) visitsOf(ctx context.Context, roundID string) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, visitSelect+` WHERE round_id = $1 ORDER BY visit_order, id`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

func (r *repoPG) collect(ctx context.Context, rows pgx.Rows) ([]*Round, error) {
	defer rows.Close()

	var result []*Round
	for rows.Next() {
		var rd Round
		if err := rows.Scan(&rd.ID, &rd.Date, &rd.TimeSlot, &rd.FacilityID, &rd.FacilityName); err != nil {
			return nil, err
		}
		result = append(result, &rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rd := range result {
		visits, err := r.visitsOf(ctx, rd.ID)
		if err != nil {
			return nil, err
		}
		rd.Visits = visits
	}
	return result, nil
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	var confirmed *string
	var raw []byte
	err := row.Scan(&v.ID, &v.Order, &v.TranscriptSummary, &v.EstimatedPatientName,
		&confirmed, &raw, &v.Transcript, &v.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if confirmed != nil {
		v.ConfirmedPatientID = *confirmed
	}
	if len(raw) > 0 {
		var data note.ClinicalData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		v.ClinicalData = &data
	}
	return &v, nil
}

func marshalClinicalData(data *note.ClinicalData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
