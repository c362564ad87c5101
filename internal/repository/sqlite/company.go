package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kordano/jobly/internal/sqlbuild"
	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
)

const companyColumns = `handle, name, num_employees, description, logo_url`

// companyFilters maps listing query parameters onto predicate fragments.
var companyFilters = []sqlbuild.Filter{
	{Param: "search", Column: "LOWER(name)", Op: "LIKE", Transform: sqlbuild.Substring},
	{Param: "min_employees", Column: "num_employees", Op: ">="},
	{Param: "max_employees", Column: "num_employees", Op: "<="},
}

var companyRanges = []sqlbuild.Range{
	{MinParam: "min_employees", MaxParam: "max_employees"},
}

// companyUpdatable is the allow-list of columns a partial update may touch.
// The identifying key (handle) is immutable and never part of it.
var companyUpdatable = map[string]bool{
	"name":          true,
	"num_employees": true,
	"description":   true,
	"logo_url":      true,
}

func scanCompany(s interface{ Scan(...any) error }) (*models.Company, error) {
	var c models.Company
	if err := s.Scan(&c.Handle, &c.Name, &c.NumEmployees, &c.Description, &c.LogoURL); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return r.queryCompanies(ctx, `SELECT `+companyColumns+` FROM companies`)
}

func (r *SQLiteRepo) SearchCompanies(ctx context.Context, criteria map[string]string) ([]models.Company, error) {
	clause, args, err := sqlbuild.Where(companyFilters, companyRanges, criteria)
	if err != nil {
		return nil, err
	}
	if clause == "" {
		return r.ListCompanies(ctx)
	}
	return r.queryCompanies(ctx, `SELECT `+companyColumns+` FROM companies WHERE `+clause, args...)
}

func (r *SQLiteRepo) queryCompanies(ctx context.Context, query string, args ...any) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetCompany(ctx context.Context, handle string) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE handle = ?`, handle)
	c, err := scanCompany(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such company: %s", handle)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepo) CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	if c == nil || c.Handle == "" || c.Name == "" {
		return nil, apperr.Validation("handle and name are required for a new company")
	}

	row := r.conn.QueryRow(ctx,
		`INSERT INTO companies (handle, name, num_employees, description, logo_url) VALUES (?, ?, ?, ?, ?) RETURNING `+companyColumns,
		c.Handle, c.Name, c.NumEmployees, c.Description, c.LogoURL)
	created, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("company %s already exists", c.Handle)
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return created, nil
}

func (r *SQLiteRepo) UpdateCompany(ctx context.Context, handle string, fields map[string]any) (*models.Company, error) {
	for col := range fields {
		if !companyUpdatable[col] {
			return nil, apperr.Validation("cannot update field %q", col)
		}
	}

	query, args, err := sqlbuild.PartialUpdate("companies", fields, "handle", handle)
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, query, args...)
	c, err := scanCompany(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such company: %s", handle)
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepo) DeleteCompany(ctx context.Context, handle string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM companies WHERE handle = ?`, handle)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no such company: %s", handle)
	}
	return nil
}
