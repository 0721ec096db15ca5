// Package repo contains the Postgres access code for drivers and daily logs.
// Each resource has its own file with an interface and a pgx implementation.
// Only SQL and type mapping live here; HOS rules belong to the hos package.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// Postgres error codes mapped onto domain sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// db is the subset of *pgxpool.Pool and pgx.Tx the repos use.
// Integration tests pass a pgx.Tx that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so multi-statement writes still nest.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mapPgError translates constraint violations into domain errors.
// Anything else is returned unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case "daily_logs_driver_date_key":
			return fmt.Errorf("%w: a log already exists for this driver and date", domain.ErrConflict)
		case "drivers_license_number_key":
			return fmt.Errorf("%w: license number is already registered", domain.ErrConflict)
		}
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: driver does not exist", domain.ErrValidation)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
