package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Reasons attached to StockAdjusted events
const (
	ReasonOpeningStock     = "opening_stock"
	ReasonManualAdjustment = "manual_adjustment"
	ReasonInvoiceItem      = "invoice_item"
	ReasonInvoiceCancelled = "invoice_cancelled"
	ReasonInvoiceDeleted   = "invoice_deleted"
	ReasonPurchaseReceipt  = "purchase_receipt"
	ReasonTransferOut      = "transfer_out"
	ReasonTransferIn       = "transfer_in"
	ReasonTransferReturned = "transfer_returned"
)

// Movement is one applied ledger adjustment
type Movement struct {
	Item       *inventory.InventoryItem
	LocationID uuid.UUID
	Delta      int
	Quantity   int
}

// QuantityLedger is the single writer of per-location stock quantities.
// It holds no state; all storage access goes through the repositories of the
// caller's transaction.
type QuantityLedger struct{}

// NewQuantityLedger creates a new QuantityLedger
func NewQuantityLedger() *QuantityLedger {
	return &QuantityLedger{}
}

// AdjustQuantity applies delta to the quantity of an item at a location and
// returns the new quantity. Untracked items are left alone and report 0.
//
// It is the quantity-only form of Adjust for callers that publish no events,
// such as maintenance jobs and the ledger's own tests. Services use Adjust or
// AdjustItem so the movement can be recorded for publishing after commit.
func (l *QuantityLedger) AdjustQuantity(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID, itemID, locationID uuid.UUID,
	delta int,
) (int, error) {
	m, err := l.Adjust(ctx, repos, tenantID, itemID, locationID, delta)
	if err != nil || m == nil {
		return 0, err
	}
	return m.Quantity, nil
}

// Adjust loads the item and applies delta. It returns a nil Movement for items
// that do not track quantity.
func (l *QuantityLedger) Adjust(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID, itemID, locationID uuid.UUID,
	delta int,
) (*Movement, error) {
	item, err := repos.InventoryItems().FindByIDIncludingDeleted(ctx, tenantID, itemID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Inventory item %s not found", itemID)
		}
		return nil, err
	}
	return l.AdjustItem(ctx, repos, item, locationID, delta)
}

// AdjustItem applies delta for an already loaded item.
//
// The row for (item, location) is created with quantity 0 if missing, then
// updated with a single guarded increment so that concurrent writers cannot
// drive the quantity below zero. Stock can still be returned to a
// soft-deleted item but not taken from it.
func (l *QuantityLedger) AdjustItem(
	ctx context.Context,
	repos TransactionalRepositories,
	item *inventory.InventoryItem,
	locationID uuid.UUID,
	delta int,
) (*Movement, error) {
	if !item.TrackQuantity {
		return nil, nil
	}
	if delta < 0 && item.IsDeleted() {
		return nil, shared.NewBadRequestError("Inventory item %s has been deleted", item.SKU)
	}

	quantities := repos.Quantities()
	if err := quantities.EnsureRow(ctx, inventory.NewLocationQuantity(item.TenantID, item.ID, locationID)); err != nil {
		return nil, err
	}

	if delta != 0 {
		applied, err := quantities.Increment(ctx, item.ID, locationID, delta, delta < 0)
		if err != nil {
			return nil, err
		}
		if !applied {
			available, err := quantities.GetQuantity(ctx, item.ID, locationID)
			if err != nil {
				return nil, err
			}
			return nil, shared.NewInsufficientStockError(item.SKU, locationID, available, -delta)
		}
	}

	quantity, err := quantities.GetQuantity(ctx, item.ID, locationID)
	if err != nil {
		return nil, err
	}
	return &Movement{
		Item:       item,
		LocationID: locationID,
		Delta:      delta,
		Quantity:   quantity,
	}, nil
}

// Movements collects the ledger movements of one unit of work so their events
// can be published once it commits.
type Movements struct {
	events []shared.DomainEvent
}

// Record adds a movement. Nil and zero-delta movements are ignored.
func (m *Movements) Record(mv *Movement, reason string) {
	if mv == nil || mv.Delta == 0 {
		return
	}
	m.events = append(m.events, inventory.NewStockAdjustedEvent(mv.Item, mv.LocationID, mv.Delta, mv.Quantity, reason))
}

// Add appends other domain events raised in the same unit of work
func (m *Movements) Add(events ...shared.DomainEvent) {
	m.events = append(m.events, events...)
}

// Events returns the collected events
func (m *Movements) Events() []shared.DomainEvent {
	return m.events
}

// Reset drops everything collected, used before a transaction is retried
func (m *Movements) Reset() {
	m.events = nil
}

// PublishEvents publishes events after commit. A failure is logged and never
// undoes the committed work.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil && logger != nil {
		logger.Error("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.String("first_event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}
