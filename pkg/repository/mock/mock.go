package mock

import (
	"context"

	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	Users *UserRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users: &UserRepo{},
	}
}

// UserRepo is an in-memory stand-in keyed on a single stored user.
type UserRepo struct {
	Stored    *models.User
	CreateErr error
	UpdateErr error
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.Stored == nil {
		return nil, nil
	}
	return []models.User{*m.Stored}, nil
}

func (m *UserRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, apperr.NotFound("no such user: %s", username)
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User, password string) (*models.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	stored := *u
	stored.PasswordHash = "hashed:" + password
	m.Stored = &stored
	return m.Stored, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, username string, fields map[string]any) (*models.User, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if m.Stored == nil || m.Stored.Username != username {
		return nil, apperr.NotFound("no such user: %s", username)
	}
	if v, ok := fields["first_name"].(string); ok {
		m.Stored.FirstName = v
	}
	if v, ok := fields["last_name"].(string); ok {
		m.Stored.LastName = v
	}
	if v, ok := fields["email"].(string); ok {
		m.Stored.Email = v
	}
	return m.Stored, nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, username string) error {
	if m.Stored == nil || m.Stored.Username != username {
		return apperr.NotFound("no such user: %s", username)
	}
	m.Stored = nil
	return nil
}
