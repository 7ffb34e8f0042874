package invoicing

import (
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type of invoice events
const AggregateTypeInvoice = "Invoice"

// EventTypeInvoiceStatusChanged is raised on every invoice status transition
const EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"

// InvoiceStatusChangedEvent is raised on every invoice status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	FromStatus    InvoiceStatus   `json:"from_status"`
	ToStatus      InvoiceStatus   `json:"to_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		FromStatus:      from,
		ToStatus:        inv.Status,
		TotalAmount:     inv.TotalAmount,
	}
}
