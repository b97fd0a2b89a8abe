package facility

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, f *Facility) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO facility (id, name) VALUES ($1, $2)`,
		f.ID, f.Name,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Facility, error) {
	return scanFacility(r.pool.QueryRow(ctx,
		`SELECT id, name FROM facility WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Facility, error) {
	return scanFacility(r.pool.QueryRow(ctx,
		`SELECT id, name FROM facility WHERE name = $1`, name))
}

func (r *repoPG) First(ctx context.Context) (*Facility, error) {
	return scanFacility(r.pool.QueryRow(ctx,
		`SELECT id, name FROM facility ORDER BY created_at, id LIMIT 1`))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Facility, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM facility`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM facility ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, 0, err
		}
		result = append(result, &f)
	}
	return result, total, rows.Err()
}

func scanFacility(row pgx.Row) (*Facility, error) {
	var f Facility
	if err := row.Scan(&f.ID, &f.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
