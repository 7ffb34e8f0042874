package purchasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// A received order cannot be reopened for a second shipment.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityOrdered  int             `gorm:"not null"`
	QuantityReceived int             `gorm:"not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrder is an order placed with a supplier for delivery to one location
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	LocationID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	PONumber     string              `gorm:"column:po_number;type:varchar(50);not null"`
	SupplierName string              `gorm:"type:varchar(200)"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Notes        string              `gorm:"type:text"`
	OrderedAt    *time.Time
	ReceivedDate *time.Time
	CancelledAt  *time.Time
	Items        []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID, locationID uuid.UUID, poNumber, supplierName string) (*PurchaseOrder, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewBadRequestError("Location ID is required")
	}
	if strings.TrimSpace(poNumber) == "" {
		return nil, shared.NewBadRequestError("PO number is required")
	}
	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		PONumber:            poNumber,
		SupplierName:        strings.TrimSpace(supplierName),
		Status:              PurchaseOrderStatusDraft,
		TotalAmount:         decimal.Zero,
		Items:               make([]PurchaseOrderItem, 0),
	}, nil
}

// AddItem appends a line to a draft order
func (po *PurchaseOrder) AddItem(inventoryItemID uuid.UUID, quantity int, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if po.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewBadRequestError("Cannot add items to a %s purchase order", po.Status)
	}
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewBadRequestError("Inventory item ID is required")
	}
	if quantity < 1 {
		return nil, shared.NewBadRequestError("Quantity ordered must be at least 1, got %d", quantity)
	}
	if unitCost.IsNegative() {
		return nil, shared.NewBadRequestError("Unit cost cannot be negative")
	}

	now := time.Now()
	item := PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: po.ID,
		InventoryItemID: inventoryItemID,
		QuantityOrdered: quantity,
		UnitCost:        unitCost,
		Subtotal:        unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	po.Items = append(po.Items, item)
	po.recalculateTotal()
	po.Touch()
	return &po.Items[len(po.Items)-1], nil
}

// transitionTo is the single place where purchase order status changes are validated
func (po *PurchaseOrder) transitionTo(target PurchaseOrderStatus) error {
	if !po.Status.CanTransitionTo(target) {
		return shared.NewBadRequestError("Cannot change purchase order %s from %s to %s", po.PONumber, po.Status, target)
	}
	po.Status = target
	po.Touch()
	return nil
}

// PlaceOrder moves a draft order to ordered
func (po *PurchaseOrder) PlaceOrder() error {
	if len(po.Items) == 0 {
		return shared.NewBadRequestError("Cannot order purchase order %s without items", po.PONumber)
	}
	if err := po.transitionTo(PurchaseOrderStatusOrdered); err != nil {
		return err
	}
	now := time.Now()
	po.OrderedAt = &now
	return nil
}

// Cancel cancels a draft or ordered purchase order
func (po *PurchaseOrder) Cancel() error {
	if err := po.transitionTo(PurchaseOrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	po.CancelledAt = &now
	return nil
}

// ReceiptLine is the quantity received for one purchase order line
type ReceiptLine struct {
	ItemID           uuid.UUID
	QuantityReceived int
}

// ValidateReceipt checks every line before anything is changed
func (po *PurchaseOrder) ValidateReceipt(lines []ReceiptLine) error {
	if po.Status != PurchaseOrderStatusOrdered {
		return shared.NewBadRequestError("Cannot receive purchase order %s in %s status: it must be ordered", po.PONumber, po.Status)
	}
	if len(lines) == 0 {
		return shared.NewBadRequestError("At least one received item is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ItemID]; dup {
			return shared.NewBadRequestError("Purchase order item %s is listed more than once", line.ItemID)
		}
		seen[line.ItemID] = struct{}{}

		item := po.findItem(line.ItemID)
		if item == nil {
			return shared.NewNotFoundError("Purchase order item %s not found on purchase order %s", line.ItemID, po.PONumber)
		}
		if line.QuantityReceived < 0 {
			return shared.NewBadRequestError("Quantity received (%d) cannot be negative", line.QuantityReceived)
		}
		if line.QuantityReceived > item.QuantityOrdered {
			return shared.NewBadRequestError("Quantity received (%d) cannot exceed quantity ordered (%d)",
				line.QuantityReceived, item.QuantityOrdered)
		}
	}
	return nil
}

// ApplyReceipt validates the whole receipt, then records the received
// quantities and marks the order received. Lines not listed are settled as
// received 0. It returns the listed lines in request order.
func (po *PurchaseOrder) ApplyReceipt(lines []ReceiptLine) ([]PurchaseOrderItem, error) {
	if err := po.ValidateReceipt(lines); err != nil {
		return nil, err
	}

	now := time.Now()
	quantities := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		quantities[line.ItemID] = line.QuantityReceived
	}
	for i := range po.Items {
		item := &po.Items[i]
		item.QuantityReceived = quantities[item.ID]
		item.Subtotal = item.UnitCost.Mul(decimal.NewFromInt(int64(item.QuantityReceived)))
		item.UpdatedAt = now
	}
	po.recalculateTotal()

	received := make([]PurchaseOrderItem, 0, len(lines))
	for _, line := range lines {
		received = append(received, *po.findItem(line.ItemID))
	}

	if err := po.transitionTo(PurchaseOrderStatusReceived); err != nil {
		return nil, err
	}
	po.ReceivedDate = &now
	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po, received))
	return received, nil
}

// TotalReceived returns the number of units received across all lines
func (po *PurchaseOrder) TotalReceived() int {
	total := 0
	for _, item := range po.Items {
		total += item.QuantityReceived
	}
	return total
}

func (po *PurchaseOrder) findItem(id uuid.UUID) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == id {
			return &po.Items[i]
		}
	}
	return nil
}

func (po *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Subtotal)
	}
	po.TotalAmount = total
}
