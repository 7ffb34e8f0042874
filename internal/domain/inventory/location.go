package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// Location is a physical shop or storeroom belonging to a company.
// Stock quantities are held per location.
type Location struct {
	shared.TenantEntity
	Name      string     `gorm:"type:varchar(100);not null"`
	Address   string     `gorm:"type:varchar(255)"`
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location for a tenant
func NewLocation(tenantID uuid.UUID, name, address string) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewBadRequestError("Location name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewBadRequestError("Location name cannot exceed 100 characters")
	}
	return &Location{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Address:      strings.TrimSpace(address),
	}, nil
}

// IsDeleted reports whether the location has been soft deleted
func (l *Location) IsDeleted() bool {
	return l.DeletedAt != nil
}

// MarkDeleted soft deletes the location
func (l *Location) MarkDeleted() {
	l.Touch()
	now := l.UpdatedAt
	l.DeletedAt = &now
}
