package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// LocationRepository defines persistence for locations
type LocationRepository interface {
	// FindByIDForTenant returns shared.ErrNotFound for missing, deleted or foreign locations
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, int64, error)
	Save(ctx context.Context, location *Location) error
}

// InventoryItemRepository defines persistence for inventory items
type InventoryItemRepository interface {
	// FindByIDForTenant returns shared.ErrNotFound for missing, deleted or foreign items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDIncludingDeleted also returns soft-deleted items so that stock
	// held on open documents can still be returned to them
	FindByIDIncludingDeleted(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryItem, int64, error)

	// FindBySKUAtLocation finds the non-deleted item with the given SKU whose home
	// location is locationID
	FindBySKUAtLocation(ctx context.Context, tenantID uuid.UUID, sku string, locationID uuid.UUID) (*InventoryItem, error)

	ExistsBySKUAtLocation(ctx context.Context, tenantID uuid.UUID, sku string, locationID uuid.UUID) (bool, error)

	Save(ctx context.Context, item *InventoryItem) error

	// UpdateLocation persists only the home location of an item
	UpdateLocation(ctx context.Context, item *InventoryItem) error

	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

// QuantityRepository is the storage port of the quantity ledger
type QuantityRepository interface {
	// EnsureRow inserts the row if no row exists for its (item, location) pair
	EnsureRow(ctx context.Context, row *LocationQuantity) error

	// Increment atomically applies quantity = quantity + delta and reports whether a
	// row was changed. When guardNonNegative is set the update only matches rows
	// where the result stays >= 0.
	Increment(ctx context.Context, itemID, locationID uuid.UUID, delta int, guardNonNegative bool) (bool, error)

	// GetQuantity returns the current quantity, or 0 when no row exists
	GetQuantity(ctx context.Context, itemID, locationID uuid.UUID) (int, error)

	FindByItem(ctx context.Context, itemID uuid.UUID) ([]LocationQuantity, error)
}

// TransferRepository defines persistence for inventory transfers
type TransferRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryTransfer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryTransfer, int64, error)
	Save(ctx context.Context, transfer *InventoryTransfer) error
}
