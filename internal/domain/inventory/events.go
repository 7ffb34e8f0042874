package inventory

import (
	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInventoryItem     = "InventoryItem"
	AggregateTypeInventoryTransfer = "InventoryTransfer"
)

// Event type constants
const (
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeItemRelocated     = "InventoryItemRelocated"
	EventTypeTransferCompleted = "InventoryTransferCompleted"
	EventTypeTransferCancelled = "InventoryTransferCancelled"
)

// StockAdjustedEvent is raised for every non-zero ledger adjustment of a tracked item
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	SKU             string    `json:"sku"`
	LocationID      uuid.UUID `json:"location_id"`
	Delta           int       `json:"delta"`
	Quantity        int       `json:"quantity"`
	ReorderLevel    int       `json:"reorder_level"`
	Reason          string    `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, locationID uuid.UUID, delta, quantity int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		SKU:             item.SKU,
		LocationID:      locationID,
		Delta:           delta,
		Quantity:        quantity,
		ReorderLevel:    item.ReorderLevel,
		Reason:          reason,
	}
}

// ItemRelocatedEvent is raised when an item's home location changes
type ItemRelocatedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	FromLocationID  uuid.UUID `json:"from_location_id"`
	ToLocationID    uuid.UUID `json:"to_location_id"`
}

// NewItemRelocatedEvent creates a new ItemRelocatedEvent
func NewItemRelocatedEvent(item *InventoryItem, from uuid.UUID) *ItemRelocatedEvent {
	return &ItemRelocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRelocated, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		FromLocationID:  from,
		ToLocationID:    item.LocationID,
	}
}

// TransferCompletedEvent is raised when a pending transfer is completed
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID   uuid.UUID `json:"inventory_item_id"`
	DestinationItemID uuid.UUID `json:"destination_item_id"`
	FromLocationID    uuid.UUID `json:"from_location_id"`
	ToLocationID      uuid.UUID `json:"to_location_id"`
	Quantity          int       `json:"quantity"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *InventoryTransfer) *TransferCompletedEvent {
	destination := t.InventoryItemID
	if t.DestinationItemID != nil {
		destination = *t.DestinationItemID
	}
	return &TransferCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeInventoryTransfer, t.ID, t.TenantID),
		InventoryItemID:   t.InventoryItemID,
		DestinationItemID: destination,
		FromLocationID:    t.FromLocationID,
		ToLocationID:      t.ToLocationID,
		Quantity:          t.Quantity,
	}
}

// TransferCancelledEvent is raised when a pending transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	FromLocationID  uuid.UUID `json:"from_location_id"`
	Quantity        int       `json:"quantity"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *InventoryTransfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeInventoryTransfer, t.ID, t.TenantID),
		InventoryItemID: t.InventoryItemID,
		FromLocationID:  t.FromLocationID,
		Quantity:        t.Quantity,
	}
}
