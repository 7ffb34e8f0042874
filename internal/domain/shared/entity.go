package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the primary key and timestamps every table shares
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Touch moves UpdatedAt to now; call it on every state change
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// TenantEntity is a row owned by one shop. Every repository lookup filters
// on TenantID, so a row of another tenant reads as not found.
type TenantEntity struct {
	BaseEntity
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	now := time.Now()
	return TenantEntity{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		TenantID:   tenantID,
	}
}
