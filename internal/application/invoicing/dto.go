package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to create an invoice.
// Items are added through the same path as CreateItem, in order.
type CreateInvoiceRequest struct {
	LocationID     uuid.UUID                  `json:"location_id" binding:"required"`
	CustomerID     *uuid.UUID                 `json:"customer_id"`
	TaxRate        decimal.Decimal            `json:"tax_rate"`
	DiscountAmount decimal.Decimal            `json:"discount_amount"`
	DueDate        *time.Time                 `json:"due_date"`
	Notes          string                     `json:"notes" binding:"max=2000"`
	Items          []CreateInvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceTermsRequest changes the tax rate and invoice-level discount
type UpdateInvoiceTermsRequest struct {
	TaxRate        decimal.Decimal `json:"tax_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CreateInvoiceItemRequest represents a request to add a line to an invoice
type CreateInvoiceItemRequest struct {
	InventoryItemID *uuid.UUID      `json:"inventory_item_id"`
	Description     string          `json:"description" binding:"required,max=500"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Type            string          `json:"type" binding:"omitempty,oneof=part service other"`
}

// ToLineInput converts the request to a domain LineInput. Type defaults to part.
func (r CreateInvoiceItemRequest) ToLineInput() invoicing.LineInput {
	itemType := invoicing.ItemType(r.Type)
	if itemType == "" {
		itemType = invoicing.ItemTypePart
	}
	return invoicing.LineInput{
		InventoryItemID: r.InventoryItemID,
		Description:     r.Description,
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice,
		DiscountPercent: r.DiscountPercent,
		Type:            itemType,
	}
}

// UpdateInvoiceItemRequest is a partial update of an invoice line. Omitted
// fields keep their current value. ClearInventoryItem detaches the line from
// its inventory item.
type UpdateInvoiceItemRequest struct {
	InventoryItemID    *uuid.UUID       `json:"inventory_item_id"`
	ClearInventoryItem bool             `json:"clear_inventory_item"`
	Description        *string          `json:"description" binding:"omitempty,max=500"`
	Quantity           *int             `json:"quantity" binding:"omitempty"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	DiscountPercent    *decimal.Decimal `json:"discount_percent"`
	Type               *string          `json:"type" binding:"omitempty,oneof=part service other"`
}

// Merge applies the request on top of the current line fields
func (r UpdateInvoiceItemRequest) Merge(current invoicing.LineInput) invoicing.LineInput {
	next := current
	if r.ClearInventoryItem {
		next.InventoryItemID = nil
	} else if r.InventoryItemID != nil {
		id := *r.InventoryItemID
		next.InventoryItemID = &id
	}
	if r.Description != nil {
		next.Description = *r.Description
	}
	if r.Quantity != nil {
		next.Quantity = *r.Quantity
	}
	if r.UnitPrice != nil {
		next.UnitPrice = *r.UnitPrice
	}
	if r.DiscountPercent != nil {
		next.DiscountPercent = *r.DiscountPercent
	}
	if r.Type != nil {
		next.Type = invoicing.ItemType(*r.Type)
	}
	return next
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InventoryItemID *uuid.UUID      `json:"inventory_item_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Type            string          `json:"type"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToInvoiceItemResponse converts a domain InvoiceItem to InvoiceItemResponse
func ToInvoiceItemResponse(item *invoicing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:              item.ID,
		InvoiceID:       item.InvoiceID,
		InventoryItemID: item.InventoryItemID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		DiscountPercent: item.DiscountPercent,
		DiscountAmount:  item.DiscountAmount,
		Subtotal:        item.Subtotal,
		Type:            string(item.Type),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// InvoiceTotalsResponse carries the derived money fields of an invoice
type InvoiceTotalsResponse struct {
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// ToInvoiceTotalsResponse extracts the totals of an invoice
func ToInvoiceTotalsResponse(inv *invoicing.Invoice) InvoiceTotalsResponse {
	return InvoiceTotalsResponse{
		InvoiceID:      inv.ID,
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
	}
}

// InvoiceItemResult is returned by item mutations together with the
// recalculated invoice totals
type InvoiceItemResult struct {
	Item   *InvoiceItemResponse  `json:"item,omitempty"`
	Totals InvoiceTotalsResponse `json:"invoice_totals"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	LocationID     uuid.UUID             `json:"location_id"`
	CustomerID     *uuid.UUID            `json:"customer_id,omitempty"`
	InvoiceNumber  string                `json:"invoice_number"`
	Status         string                `json:"status"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Notes          string                `json:"notes,omitempty"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		LocationID:     inv.LocationID,
		CustomerID:     inv.CustomerID,
		InvoiceNumber:  inv.InvoiceNumber,
		Status:         string(inv.Status),
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		Notes:          inv.Notes,
		DueDate:        inv.DueDate,
		IssuedAt:       inv.IssuedAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	for i := range inv.Items {
		resp.Items = append(resp.Items, ToInvoiceItemResponse(&inv.Items[i]))
	}
	return resp
}
