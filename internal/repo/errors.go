package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/places-api/internal/domain"
)

// Postgres SQLSTATE codes the repo translates into domain errors.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	pgUniqueViolation        = "23505"
	pgCheckViolation         = "23514"
	pgNotNullViolation       = "23502"
	pgStringDataTruncation   = "22001"
	pgInvalidTextRepr        = "22P02"
	pgInvalidDatetimeFormat  = "22007"
	pgDatetimeFieldOverflow  = "22008"
	pgNumericValueOutOfRange = "22003"
)

// translate maps driver-level errors onto the domain error taxonomy.
// Errors it does not recognise are returned unchanged and surface as 500s.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: a place with this id already exists", domain.ErrConflict)
	case pgCheckViolation, pgNotNullViolation, pgStringDataTruncation, pgInvalidTextRepr,
		pgInvalidDatetimeFormat, pgDatetimeFieldOverflow, pgNumericValueOutOfRange:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	}
	return err
}
