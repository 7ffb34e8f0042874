package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// FindByIDForTenant loads the invoice header. Deleted invoices are not found.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByIDWithItems loads the invoice and all of its items
	FindByIDWithItems(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)

	// FindOverdue returns issued invoices of any tenant whose due date is before now
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]Invoice, error)

	// Save inserts or updates the invoice header, never its items
	Save(ctx context.Context, invoice *Invoice) error

	// UpdateTotals writes subtotal, tax_amount and total_amount in one statement
	UpdateTotals(ctx context.Context, invoice *Invoice) error

	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// GenerateInvoiceNumber returns the next free number with the given prefix
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// InvoiceItemRepository defines persistence for invoice lines
type InvoiceItemRepository interface {
	// FindByIDForInvoice returns shared.ErrNotFound unless the item belongs to the invoice and tenant
	FindByIDForInvoice(ctx context.Context, tenantID, invoiceID, id uuid.UUID) (*InvoiceItem, error)

	// FindByInvoice returns every current line of the invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error)

	Save(ctx context.Context, item *InvoiceItem) error

	Delete(ctx context.Context, id uuid.UUID) error
}
