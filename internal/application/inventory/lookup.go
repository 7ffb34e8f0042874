package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
)

// LoadLocation returns the tenant's location or a not-found error naming it
func LoadLocation(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*inventory.Location, error) {
	location, err := repos.Locations().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Location %s not found", id)
		}
		return nil, err
	}
	return location, nil
}

// LoadItem returns the tenant's inventory item or a not-found error naming it
func LoadItem(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := repos.InventoryItems().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Inventory item %s not found", id)
		}
		return nil, err
	}
	return item, nil
}
