package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kordano/jobly/internal/sqlbuild"
	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
)

const jobColumns = `id, title, salary, equity, company_handle, date_posted`

var jobFilters = []sqlbuild.Filter{
	{Param: "search", Column: "LOWER(title)", Op: "LIKE", Transform: sqlbuild.Substring},
	{Param: "min_salary", Column: "salary", Op: ">="},
	{Param: "min_equity", Column: "equity", Op: ">="},
	{Param: "handle", Column: "company_handle", Op: "="},
}

var jobUpdatable = map[string]bool{
	"title":          true,
	"salary":         true,
	"equity":         true,
	"company_handle": true,
}

func scanJob(s interface{ Scan(...any) error }) (*models.Job, error) {
	var j models.Job
	if err := s.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &j.DatePosted); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *SQLiteRepo) ListJobs(ctx context.Context) ([]models.Job, error) {
	return r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY date_posted DESC`)
}

func (r *SQLiteRepo) SearchJobs(ctx context.Context, criteria map[string]string) ([]models.Job, error) {
	clause, args, err := sqlbuild.Where(jobFilters, nil, criteria)
	if err != nil {
		return nil, err
	}
	if clause == "" {
		return r.ListJobs(ctx)
	}
	return r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+clause, args...)
}

func (r *SQLiteRepo) queryJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such job: %d", id)
		}
		return nil, err
	}
	return j, nil
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if j == nil || j.Title == "" || j.Salary == nil || j.Equity == nil || j.CompanyHandle == "" {
		return nil, apperr.Validation("title, salary, equity, and companyHandle are required for a new job")
	}

	row := r.conn.QueryRow(ctx,
		`INSERT INTO jobs (title, salary, equity, company_handle) VALUES (?, ?, ?, ?) RETURNING `+jobColumns,
		j.Title, j.Salary, j.Equity, j.CompanyHandle)
	created, err := scanJob(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.Validation("no such company: %s", j.CompanyHandle)
		}
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return created, nil
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, id int64, fields map[string]any) (*models.Job, error) {
	for col := range fields {
		if !jobUpdatable[col] {
			return nil, apperr.Validation("cannot update field %q", col)
		}
	}

	query, args, err := sqlbuild.PartialUpdate("jobs", fields, "id", id)
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, query, args...)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such job: %d", id)
		}
		if isForeignKeyViolation(err) {
			return nil, apperr.Validation("no such company")
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no such job: %d", id)
	}
	return nil
}
