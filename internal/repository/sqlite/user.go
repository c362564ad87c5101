package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kordano/jobly/internal/sqlbuild"
	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
)

const userColumns = `username, password, first_name, last_name, email, photo_url, is_admin`

// userUpdatable excludes username (immutable key) and is_admin, which only
// creation may set.
var userUpdatable = map[string]bool{
	"password":   true,
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"photo_url":  true,
}

func scanUser(s interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := s.Scan(&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email, &u.PhotoURL, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such user: %s", username)
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User, password string) (*models.User, error) {
	if u == nil || u.Username == "" || password == "" {
		return nil, apperr.Validation("username and password are required for a new user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := r.conn.QueryRow(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, photo_url, is_admin) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING `+userColumns,
		u.Username, string(hash), u.FirstName, u.LastName, u.Email, u.PhotoURL, u.IsAdmin)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("user %s already exists", u.Username)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, username string, fields map[string]any) (*models.User, error) {
	for col := range fields {
		if !userUpdatable[col] {
			return nil, apperr.Validation("cannot update field %q", col)
		}
	}

	// A new password is hashed before it is bound.
	if pw, ok := fields["password"]; ok {
		raw, ok := pw.(string)
		if !ok || raw == "" {
			return nil, apperr.Validation("password must be a non-empty string")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(raw), r.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hash)
	}

	query, args, err := sqlbuild.PartialUpdate("users", fields, "username", username)
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, query, args...)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("no such user: %s", username)
		}
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepo) DeleteUser(ctx context.Context, username string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no such user: %s", username)
	}
	return nil
}
