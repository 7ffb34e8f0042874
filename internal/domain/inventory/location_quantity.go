package inventory

import (
	"time"

	"github.com/google/uuid"
)

// LocationQuantity is one row of the quantity ledger: the on-hand count of an
// inventory item at a location. Rows are created lazily with quantity 0 the
// first time a location receives stock for an item.
type LocationQuantity struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_quantity_item_location"`
	LocationID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_quantity_item_location"`
	Quantity        int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocationQuantity) TableName() string {
	return "inventory_location_quantities"
}

// NewLocationQuantity creates an empty ledger row
func NewLocationQuantity(tenantID, itemID, locationID uuid.UUID) *LocationQuantity {
	now := time.Now()
	return &LocationQuantity{
		ID:              uuid.New(),
		TenantID:        tenantID,
		InventoryItemID: itemID,
		LocationID:      locationID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
