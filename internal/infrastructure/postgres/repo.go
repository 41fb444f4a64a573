// Package postgres implements the domain persistence ports on PostgreSQL
// via pgx.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/postline/postline/internal/domain"
)

const fkViolationCode = "23503"

// wrapPgError maps driver-level errors onto the domain taxonomy. Foreign
// key violations become ErrIntegrity so the HTTP layer can answer with a
// client error instead of a 500.
func wrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolationCode {
		return fmt.Errorf("%s: %w", op, domain.ErrIntegrity)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}
