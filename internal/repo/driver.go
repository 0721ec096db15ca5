package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// DriverRepo defines the persistence operations for Drivers.
type DriverRepo interface {
	// Create inserts a driver and returns it with DB-generated id and timestamps.
	// Returns domain.ErrConflict if the license number is already registered.
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)

	// GetByID returns domain.ErrNotFound if no driver has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)

	// List returns every driver ordered by name.
	List(ctx context.Context) ([]domain.Driver, error)

	// ListPaged returns one page of drivers whose name or license number contains
	// search (case-insensitive), plus the total number of matches.
	ListPaged(ctx context.Context, search string, p domain.PaginationParams) ([]domain.Driver, int64, error)

	// Update overwrites the mutable fields of a driver.
	// Returns domain.ErrNotFound if no driver has that ID.
	Update(ctx context.Context, d domain.Driver) (domain.Driver, error)

	// Delete removes a driver and, by cascade, all of its logs.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo. In production pass *pgxpool.Pool;
// in tests pass a pgx.Tx for rollback isolation.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `id, name, license_number, home_terminal, main_office_address, created_at, updated_at`

func (r *pgDriverRepo) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (name, license_number, home_terminal, main_office_address)
		VALUES (@name, @license_number, @home_terminal, @main_office_address)
		RETURNING ` + driverColumns

	row := r.db.QueryRow(ctx, q, driverArgs(d))
	result, err := scanDriver(row)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) List(ctx context.Context) ([]domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: %w", err)
	}
	drivers, err := collectDrivers(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: %w", err)
	}
	return drivers, nil
}

func (r *pgDriverRepo) ListPaged(ctx context.Context, search string, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	const where = `
		WHERE @search = ''
		   OR name ILIKE '%' || @search || '%'
		   OR license_number ILIKE '%' || @search || '%'`
	const countQ = `SELECT count(*) FROM drivers` + where
	const q = `SELECT ` + driverColumns + ` FROM drivers` + where + `
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"search": search}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"search": search,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: %w", err)
	}
	drivers, err := collectDrivers(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: %w", err)
	}
	return drivers, total, nil
}

func (r *pgDriverRepo) Update(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	const q = `
		UPDATE drivers
		SET name                = @name,
		    license_number      = @license_number,
		    home_terminal       = @home_terminal,
		    main_office_address = @main_office_address,
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + driverColumns

	args := driverArgs(d)
	args["id"] = d.ID

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func driverArgs(d domain.Driver) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":                d.Name,
		"license_number":      d.LicenseNumber,
		"home_terminal":       d.HomeTerminal,
		"main_office_address": d.MainOfficeAddress,
	}
}

func collectDrivers(rows pgx.Rows) ([]domain.Driver, error) {
	defer rows.Close()

	drivers := []domain.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return drivers, nil
}

func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d  domain.Driver
		id pgtype.UUID
	)
	err := s.Scan(&id, &d.Name, &d.LicenseNumber, &d.HomeTerminal, &d.MainOfficeAddress, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
