// Package service holds the HOS logbook's business rules around persistence.
// Services validate input, run the hos engine, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/repo"
)

// DriverService implements business logic for Driver operations.
type DriverService struct {
	repo repo.DriverRepo
}

// NewDriverService constructs a DriverService backed by r.
func NewDriverService(r repo.DriverRepo) *DriverService {
	return &DriverService{repo: r}
}

// Create validates and persists a new driver.
func (s *DriverService) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	d, err := normalizeDriver(d)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return s.repo.Create(ctx, d)
}

// GetByID returns a single driver.
func (s *DriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPaged returns one page of drivers matching search and the total match count.
func (s *DriverService) ListPaged(ctx context.Context, search string, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	return s.repo.ListPaged(ctx, strings.TrimSpace(search), p)
}

// Update validates and overwrites an existing driver.
func (s *DriverService) Update(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	d, err := normalizeDriver(d)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	return s.repo.Update(ctx, d)
}

// Delete removes a driver together with all of their logs.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func normalizeDriver(d domain.Driver) (domain.Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
	d.HomeTerminal = strings.TrimSpace(d.HomeTerminal)
	d.MainOfficeAddress = strings.TrimSpace(d.MainOfficeAddress)

	if d.Name == "" {
		return domain.Driver{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if d.LicenseNumber == "" {
		return domain.Driver{}, fmt.Errorf("%w: license_number is required", domain.ErrValidation)
	}
	return d, nil
}
