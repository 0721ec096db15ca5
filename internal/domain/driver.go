package domain

import (
	"time"

	"github.com/google/uuid"
)

// Driver is a commercial driver whose daily logs are tracked.
type Driver struct {
	ID                uuid.UUID
	Name              string
	LicenseNumber     string
	HomeTerminal      string
	MainOfficeAddress string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
