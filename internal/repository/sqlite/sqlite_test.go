package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	migrations "github.com/kordano/jobly/db"
	"github.com/kordano/jobly/internal/db"
	"github.com/kordano/jobly/internal/repository/sqlite"
	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
)

// newTestRepo opens a private in-memory database, applies the embedded
// migrations, and returns a repository with a cheap bcrypt cost.
func newTestRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	d, err := db.New(ctx, dsn)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return sqlite.New(d, nil, bcrypt.MinCost)
}

func strptr(s string) *string { return &s }
func intptr(n int64) *int64   { return &n }
func fptr(f float64) *float64 { return &f }

func mustCreateCompany(t *testing.T, repo *sqlite.SQLiteRepo, handle, name string, employees int64) *models.Company {
	t.Helper()
	c, err := repo.CreateCompany(context.Background(), &models.Company{
		Handle:       handle,
		Name:         name,
		NumEmployees: intptr(employees),
	})
	if err != nil {
		t.Fatalf("create company %s: %v", handle, err)
	}
	return c
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apperr.From(err)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	return ae.Status
}
