package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	// FindByIDForTenant loads the order with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, int64, error)

	// Save inserts or updates the order header and all of its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveHeader updates the order row without touching its items
	SaveHeader(ctx context.Context, order *PurchaseOrder) error

	// SaveItems updates the given items only
	SaveItems(ctx context.Context, items []PurchaseOrderItem) error

	// GeneratePONumber returns the next free number with the given prefix
	GeneratePONumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}
