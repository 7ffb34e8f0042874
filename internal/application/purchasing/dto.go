package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest represents a request to create a draft purchase order
type CreatePurchaseOrderRequest struct {
	LocationID   uuid.UUID                        `json:"location_id" binding:"required"`
	SupplierName string                           `json:"supplier_name" binding:"max=200"`
	Notes        string                           `json:"notes" binding:"max=2000"`
	Items        []CreatePurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseOrderItemRequest represents one ordered line
type CreatePurchaseOrderItemRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	QuantityOrdered int             `json:"quantity_ordered" binding:"required,min=1"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseOrderRequest lists the received quantity per line
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReceiveItemRequest is the received quantity of one purchase order line.
// Zero is allowed.
type ReceiveItemRequest struct {
	ItemID           uuid.UUID `json:"item_id" binding:"required"`
	QuantityReceived int       `json:"quantity_received" binding:"min=0"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	InventoryItemID  uuid.UUID       `json:"inventory_item_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	TenantID     uuid.UUID                   `json:"tenant_id"`
	LocationID   uuid.UUID                   `json:"location_id"`
	PONumber     string                      `json:"po_number"`
	SupplierName string                      `json:"supplier_name,omitempty"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Notes        string                      `json:"notes,omitempty"`
	OrderedAt    *time.Time                  `json:"ordered_at,omitempty"`
	ReceivedDate *time.Time                  `json:"received_date,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(po *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, item := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:               item.ID,
			InventoryItemID:  item.InventoryItemID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			UnitCost:         item.UnitCost,
			Subtotal:         item.Subtotal,
		}
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		TenantID:     po.TenantID,
		LocationID:   po.LocationID,
		PONumber:     po.PONumber,
		SupplierName: po.SupplierName,
		Status:       string(po.Status),
		TotalAmount:  po.TotalAmount,
		Notes:        po.Notes,
		OrderedAt:    po.OrderedAt,
		ReceivedDate: po.ReceivedDate,
		CancelledAt:  po.CancelledAt,
		Items:        items,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
