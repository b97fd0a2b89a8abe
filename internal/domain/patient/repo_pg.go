package patient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

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

const patientCols = `id, name, kana, birth_date, gender, avatar_color, facility_id, room_number`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, kana, birth_date, gender, avatar_color, facility_id, room_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Kana, p.BirthDate, p.Gender, p.AvatarColor, p.FacilityID, p.RoomNumber,
	)
	return err
}

func (r *repoPG) CreateBatch(ctx context.Context, ps []*Patient) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range ps {
		if _, err := tx.Exec(ctx, `
			INSERT INTO patient (id, name, kana, birth_date, gender, avatar_color, facility_id, room_number)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, p.Name, p.Kana, p.BirthDate, p.Gender, p.AvatarColor, p.FacilityID, p.RoomNumber,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, date, transcript, clinical_data, status
		FROM record WHERE patient_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Records = []Record{}
	for rows.Next() {
		var rec Record
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Transcript, &raw, &rec.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &rec.ClinicalData); err != nil {
			return nil, err
		}
		p.Records = append(p.Records, rec)
	}
	return p, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Patient
	for rows.Next() {
		p, err := scanPatientRows(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repoPG) ListByFacility(ctx context.Context, facilityID string) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patient WHERE facility_id = $1 ORDER BY created_at, id`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Patient
	for rows.Next() {
		p, err := scanPatientRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repoPG) AppendRecord(ctx context.Context, patientID string, rec *Record) error {
	if err := r.exists(ctx, patientID); err != nil {
		return err
	}
	raw, err := json.Marshal(rec.ClinicalData)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO record (id, patient_id, date, transcript, clinical_data, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, patientID, rec.Date, rec.Transcript, raw, rec.Status,
	)
	return err
}

func (r *repoPG) GetRecord(ctx context.Context, patientID, recordID string) (*Record, error) {
	if err := r.exists(ctx, patientID); err != nil {
		return nil, err
	}
	var rec Record
	var raw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, date, transcript, clinical_data, status
		FROM record WHERE patient_id = $1 AND id = $2`, patientID, recordID).
		Scan(&rec.ID, &rec.Date, &rec.Transcript, &raw, &rec.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &rec.ClinicalData); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) UpdateRecordData(ctx context.Context, patientID, recordID string, data note.ClinicalData) error {
	if err := r.exists(ctx, patientID); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE record SET clinical_data = $3 WHERE patient_id = $1 AND id = $2`,
		patientID, recordID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *repoPG) exists(ctx context.Context, patientID string) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM patient WHERE id = $1`, patientID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Kana, &p.BirthDate, &p.Gender, &p.AvatarColor, &p.FacilityID, &p.RoomNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Age = DeriveAge(p.BirthDate, time.Now())
	p.Records = []Record{}
	return &p, nil
}

func scanPatientRows(rows pgx.Rows) (*Patient, error) {
	var p Patient
	err := rows.Scan(&p.ID, &p.Name, &p.Kana, &p.BirthDate, &p.Gender, &p.AvatarColor, &p.FacilityID, &p.RoomNumber)
	if err != nil {
		return nil, err
	}
	p.Age = DeriveAge(p.BirthDate, time.Now())
	p.Records = []Record{}
	return &p, nil
}
