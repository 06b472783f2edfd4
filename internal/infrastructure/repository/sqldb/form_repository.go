package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

type FormRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewFormRepository(db *sql.DB, dialect Dialect) *FormRepository {
	return &FormRepository{db: db, dialect: dialect}
}

func (r *FormRepository) EnsureSchema(ctx context.Context) error {
	if r.dialect == DialectPostgres {
		return r.ensurePostgresSchema(ctx)
	}
	return r.ensureSQLiteSchema(ctx)
}

func (r *FormRepository) ensurePostgresSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS form_data (
	id BIGSERIAL PRIMARY KEY,
	form_name TEXT NOT NULL,
	data TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_form_data_form_name ON form_data(form_name);
CREATE INDEX IF NOT EXISTS idx_form_data_created_at ON form_data(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FormRepository) ensureSQLiteSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS form_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	form_name TEXT NOT NULL,
	data TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_form_data_form_name ON form_data(form_name);
`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	return nil
}

func (r *FormRepository) Create(ctx context.Context, formName, data string) (*domain.Form, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO form_data (form_name, data, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, formName, data, now, now)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}
	return &domain.Form{
		ID:        id,
		FormName:  formName,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *FormRepository) GetByID(ctx context.Context, id int64) (*domain.Form, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, form_name, data, created_at, updated_at
FROM form_data
WHERE id = $1
`, id)

	form, err := scanForm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFormNotFound, "get form", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("scan form: %w", err)
	}
	return form, nil
}

func (r *FormRepository) List(ctx context.Context) ([]*domain.Form, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, form_name, data, created_at, updated_at
FROM form_data
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	forms := []*domain.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}
	return forms, nil
}

// Update applies a partial mutation in a single statement so a concurrent
// writer can never observe a half-applied record. updated_at refreshes even
// when the supplied values equal the stored ones.
func (r *FormRepository) Update(ctx context.Context, id int64, update domain.FormUpdate) (*domain.Form, error) {
	assignments := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.FormName != nil {
		assignments = append(assignments, "form_name = "+arg(*update.FormName))
	}
	if update.Data != nil {
		assignments = append(assignments, "data = "+arg(*update.Data))
	}
	assignments = append(assignments, "updated_at = "+arg(time.Now().UTC()))

	query := fmt.Sprintf(`
UPDATE form_data
SET %s
WHERE id = %s
RETURNING id, form_name, data, created_at, updated_at
`, strings.Join(assignments, ", "), arg(id))

	form, err := scanForm(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFormNotFound, "update form", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("update form: %w", err)
	}
	return form, nil
}

func (r *FormRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM form_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete form rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrFormNotFound, "delete form", fmt.Errorf("id=%d", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*domain.Form, error) {
	var form domain.Form
	if err := row.Scan(&form.ID, &form.FormName, &form.Data, &form.CreatedAt, &form.UpdatedAt); err != nil {
		return nil, err
	}
	return &form, nil
}
