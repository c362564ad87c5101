package repository

import (
	"context"

	"github.com/kordano/jobly/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Get/Update/Delete fail with an apperr not-found error when the key is
// unknown; Create fails with an apperr conflict error on a duplicate key.
// Search criteria are raw query-string values; unrecognized keys are ignored.

type CompanyRepo interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	SearchCompanies(ctx context.Context, criteria map[string]string) ([]models.Company, error)
	GetCompany(ctx context.Context, handle string) (*models.Company, error)
	CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error)
	UpdateCompany(ctx context.Context, handle string, fields map[string]any) (*models.Company, error)
	DeleteCompany(ctx context.Context, handle string) error
}

type JobRepo interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	SearchJobs(ctx context.Context, criteria map[string]string) ([]models.Job, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	CreateJob(ctx context.Context, j *models.Job) (*models.Job, error)
	UpdateJob(ctx context.Context, id int64, fields map[string]any) (*models.Job, error)
	DeleteJob(ctx context.Context, id int64) error
}

type UserRepo interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User, password string) (*models.User, error)
	UpdateUser(ctx context.Context, username string, fields map[string]any) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
}
