package insurer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const insurerCols = `id, name, code, contact_email, contact_phone, active, created_at, updated_at`

func scanInsurer(row pgx.Row) (*Insurer, error) {
	var ins Insurer
	err := row.Scan(&ins.ID, &ins.Name, &ins.Code, &ins.ContactEmail, &ins.ContactPhone,
		&ins.Active, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (r *repoPG) Create(ctx context.Context, ins *Insurer) error {
	ins.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO insurers (id, name, code, contact_email, contact_phone, active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ins.ID, ins.Name, ins.Code, ins.ContactEmail, ins.ContactPhone, ins.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Insurer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+insurerCols+` FROM insurers WHERE id = $1`, id)
	return scanInsurer(row)
}

func (r *repoPG) Update(ctx context.Context, ins *Insurer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE insurers
		SET name = $2, code = $3, contact_email = $4, contact_phone = $5, active = $6, updated_at = now()
		WHERE id = $1`,
		ins.ID, ins.Name, ins.Code, ins.ContactEmail, ins.ContactPhone, ins.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Insurer, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		conds = append(conds, "name ILIKE "+arg("%"+f.Search+"%"))
	}
	if f.ActiveOnly {
		conds = append(conds, "active = true")
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM insurers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + insurerCols + ` FROM insurers` + where +
		` ORDER BY name ASC` +
		` LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Insurer
	for rows.Next() {
		ins, err := scanInsurer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ins)
	}
	return out, total, rows.Err()
}
