package sqlite

import (
	"io"
	"strings"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kordano/jobly/internal/db"
	"github.com/kordano/jobly/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn       *db.DB
	logger     *slog.Logger
	bcryptCost int
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.CompanyRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.UserRepo = (*SQLiteRepo)(nil)

// New creates a repository over conn. A bcryptCost of 0 selects the bcrypt
// default; tests pass bcrypt.MinCost.
func New(conn *db.DB, logger *slog.Logger, bcryptCost int) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SQLiteRepo{conn: conn, logger: logger, bcryptCost: bcryptCost}
}

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err is a SQLite FK failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
