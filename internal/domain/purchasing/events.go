package purchasing

import (
	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder is the aggregate type of purchase order events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// EventTypePurchaseOrderReceived is raised when goods are received
const EventTypePurchaseOrderReceived = "PurchaseOrderReceived"

// ReceivedItemInfo describes one received line
type ReceivedItemInfo struct {
	ItemID           uuid.UUID `json:"item_id"`
	InventoryItemID  uuid.UUID `json:"inventory_item_id"`
	QuantityOrdered  int       `json:"quantity_ordered"`
	QuantityReceived int       `json:"quantity_received"`
}

// PurchaseOrderReceivedEvent is raised when a purchase order is received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber        string             `json:"po_number"`
	LocationID      uuid.UUID          `json:"location_id"`
	ReceivedItems   []ReceivedItemInfo `json:"received_items"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	IsFullyReceived bool               `json:"is_fully_received"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder, received []PurchaseOrderItem) *PurchaseOrderReceivedEvent {
	items := make([]ReceivedItemInfo, len(received))
	for i, item := range received {
		items[i] = ReceivedItemInfo{
			ItemID:           item.ID,
			InventoryItemID:  item.InventoryItemID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
		}
	}

	full := true
	for _, item := range po.Items {
		if item.QuantityReceived < item.QuantityOrdered {
			full = false
			break
		}
	}

	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PONumber:        po.PONumber,
		LocationID:      po.LocationID,
		ReceivedItems:   items,
		TotalAmount:     po.TotalAmount,
		IsFullyReceived: full,
	}
}
