package invoicing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType classifies an invoice line
type ItemType string

const (
	ItemTypePart    ItemType = "part"
	ItemTypeService ItemType = "service"
	ItemTypeOther   ItemType = "other"
)

// IsValid checks if the type is a known ItemType
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypePart, ItemTypeService, ItemTypeOther:
		return true
	}
	return false
}

// InvoiceItem is one line of an invoice. Lines are hard deleted.
type InvoiceItem struct {
	shared.TenantEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID *uuid.UUID      `gorm:"type:uuid;index"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Type            ItemType        `gorm:"type:varchar(20);not null;default:'part'"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineInput carries the caller-settable fields of an invoice line
type LineInput struct {
	InventoryItemID *uuid.UUID
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Type            ItemType
}

// Validate checks the line invariants
func (in LineInput) Validate() error {
	if !in.Type.IsValid() {
		return shared.NewBadRequestError("Invalid item type %q: must be part, service or other", in.Type)
	}
	if in.Quantity < 1 {
		return shared.NewBadRequestError("Quantity must be at least 1, got %d", in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewBadRequestError("Unit price cannot be negative")
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return shared.NewBadRequestError("Discount percent must be between 0 and 100, got %s", in.DiscountPercent.String())
	}
	if strings.TrimSpace(in.Description) == "" {
		return shared.NewBadRequestError("Description is required")
	}
	return nil
}

// NewInvoiceItem validates the input and computes the line amounts
func NewInvoiceItem(tenantID, invoiceID uuid.UUID, in LineInput) (*InvoiceItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	item := &InvoiceItem{
		TenantEntity: shared.NewTenantEntity(tenantID),
		InvoiceID:    invoiceID,
	}
	item.assign(in)
	return item, nil
}

// Apply replaces the line fields and recomputes its amounts
func (i *InvoiceItem) Apply(in LineInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	i.assign(in)
	i.Touch()
	return nil
}

func (i *InvoiceItem) assign(in LineInput) {
	i.InventoryItemID = in.InventoryItemID
	i.Description = strings.TrimSpace(in.Description)
	i.Quantity = in.Quantity
	i.UnitPrice = in.UnitPrice
	i.DiscountPercent = in.DiscountPercent
	i.Type = in.Type

	amounts := ComputeLine(in.Quantity, in.UnitPrice, in.DiscountPercent)
	i.DiscountAmount = amounts.DiscountAmount
	i.Subtotal = amounts.Subtotal
}

// Input returns the current line fields, used as the base for partial updates
func (i *InvoiceItem) Input() LineInput {
	return LineInput{
		InventoryItemID: i.InventoryItemID,
		Description:     i.Description,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
		Type:            i.Type,
	}
}

// ReferencesStock reports whether the line is a part pointing at an inventory
// item. Whether stock actually moves also depends on the item's TrackQuantity,
// which the quantity ledger checks.
func (in LineInput) ReferencesStock() bool {
	return in.Type == ItemTypePart && in.InventoryItemID != nil
}

// ReferencesStock reports whether the persisted line is a part pointing at an inventory item
func (i *InvoiceItem) ReferencesStock() bool {
	return i.Input().ReferencesStock()
}
