package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stockable part in a company's catalogue.
//
// An item has a home location (LocationID) and a SKU that is unique per
// company and location. Quantities are not stored on the item itself; they
// live in LocationQuantity rows so that the same item can be stocked at
// several locations. When TrackQuantity is false the item is a catalogue
// entry only and every ledger operation on it is a no-op.
type InventoryItem struct {
	shared.TenantAggregateRoot
	LocationID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TrackQuantity bool            `gorm:"not null"`
	ReorderLevel  int             `gorm:"not null;default:0"`
	DeletedAt     *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item at its home location
func NewInventoryItem(
	tenantID, locationID uuid.UUID,
	sku, name string,
	costPrice, sellingPrice decimal.Decimal,
	trackQuantity bool,
) (*InventoryItem, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewBadRequestError("Location ID is required")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewBadRequestError("SKU is required")
	}
	if len(sku) > 64 {
		return nil, shared.NewBadRequestError("SKU cannot exceed 64 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewBadRequestError("Item name is required")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewBadRequestError("Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewBadRequestError("Selling price cannot be negative")
	}

	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		SKU:                 sku,
		Name:                name,
		CostPrice:           costPrice,
		SellingPrice:        sellingPrice,
		TrackQuantity:       trackQuantity,
	}, nil
}

// SetReorderLevel sets the quantity at or below which a low-stock warning is raised
func (i *InventoryItem) SetReorderLevel(level int) error {
	if level < 0 {
		return shared.NewBadRequestError("Reorder level cannot be negative")
	}
	i.ReorderLevel = level
	i.Touch()
	return nil
}

// RelocateTo moves the item's home location. Used when a transfer completes
// at a destination that has no item with the same SKU.
func (i *InventoryItem) RelocateTo(locationID uuid.UUID) {
	if i.LocationID == locationID {
		return
	}
	from := i.LocationID
	i.LocationID = locationID
	i.Touch()
	i.AddDomainEvent(NewItemRelocatedEvent(i, from))
}

// IsDeleted reports whether the item has been soft deleted
func (i *InventoryItem) IsDeleted() bool {
	return i.DeletedAt != nil
}

// IsLowStock reports whether quantity has fallen to the reorder level
func (i *InventoryItem) IsLowStock(quantity int) bool {
	return i.TrackQuantity && quantity <= i.ReorderLevel
}
