package invoicing

import (
	"context"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/shared"
)

// Recalculator rebuilds the derived money fields of an invoice from its
// current items. It must run in the same transaction as the item change that
// made the totals stale. Running it twice without changes writes the same values.
type Recalculator struct{}

// NewRecalculator creates a new Recalculator
func NewRecalculator() *Recalculator {
	return &Recalculator{}
}

// Recalculate reloads the invoice and its items, recomputes subtotal, tax and
// total, and writes all three in one update. The returned invoice carries the
// items it was computed from.
func (r *Recalculator) Recalculate(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	tenantID, invoiceID uuid.UUID,
) (*invoicing.Invoice, error) {
	inv, err := loadInvoice(ctx, repos, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := repos.InvoiceItems().FindByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	inv.Items = items
	inv.ApplyTotals(items)
	if err := repos.Invoices().UpdateTotals(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func loadInvoice(ctx context.Context, repos appinventory.TransactionalRepositories, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Invoice %s not found", id)
		}
		return nil, err
	}
	return inv, nil
}

func loadInvoiceWithItems(ctx context.Context, repos appinventory.TransactionalRepositories, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	inv, err := repos.Invoices().FindByIDWithItems(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Invoice %s not found", id)
		}
		return nil, err
	}
	return inv, nil
}
