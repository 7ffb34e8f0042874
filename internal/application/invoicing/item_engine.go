package invoicing

import (
	"context"

	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
)

// itemEngine applies invoice line changes together with the ledger
// adjustments they imply. All methods run inside the caller's transaction and
// leave recalculation to the caller.
//
// A line moves stock only when it is a part with an inventory item; the
// ledger itself skips items that do not track quantity.
type itemEngine struct {
	ledger *appinventory.QuantityLedger
}

func newItemEngine() itemEngine {
	return itemEngine{ledger: appinventory.NewQuantityLedger()}
}

// add deducts the line quantity at the invoice location and stores the line
func (e itemEngine) add(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	in invoicing.LineInput,
	movements *appinventory.Movements,
) (*invoicing.InvoiceItem, error) {
	if err := inv.EnsureItemsMutable(); err != nil {
		return nil, err
	}
	item, err := invoicing.NewInvoiceItem(inv.TenantID, inv.ID, in)
	if err != nil {
		return nil, err
	}
	if err := e.checkReference(ctx, repos, inv, in); err != nil {
		return nil, err
	}

	if in.ReferencesStock() {
		if err := e.move(ctx, repos, inv, in, -in.Quantity, appinventory.ReasonInvoiceItem, movements); err != nil {
			return nil, err
		}
	}

	if err := repos.InvoiceItems().Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// change moves the stock difference between the current and next state of a
// line, then stores the line with recomputed amounts.
//
// When both states point at the same inventory item a single adjustment of
// old - new is applied. When the item changes, the old quantity is returned to
// the old item and the new quantity taken from the new one. A side that is not
// stock-backed contributes nothing.
func (e itemEngine) change(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	item *invoicing.InvoiceItem,
	next invoicing.LineInput,
	movements *appinventory.Movements,
) error {
	if err := inv.EnsureItemsMutable(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	prev := item.Input()
	if next.InventoryItemID != nil && (prev.InventoryItemID == nil || *prev.InventoryItemID != *next.InventoryItemID) {
		if err := e.checkReference(ctx, repos, inv, next); err != nil {
			return err
		}
	}
	prevBacked := prev.ReferencesStock()
	nextBacked := next.ReferencesStock()

	if prevBacked && nextBacked && *prev.InventoryItemID == *next.InventoryItemID {
		if delta := prev.Quantity - next.Quantity; delta != 0 {
			if err := e.move(ctx, repos, inv, next, delta, appinventory.ReasonInvoiceItem, movements); err != nil {
				return err
			}
		}
	} else {
		if prevBacked {
			if err := e.move(ctx, repos, inv, prev, prev.Quantity, appinventory.ReasonInvoiceItem, movements); err != nil {
				return err
			}
		}
		if nextBacked {
			if err := e.move(ctx, repos, inv, next, -next.Quantity, appinventory.ReasonInvoiceItem, movements); err != nil {
				return err
			}
		}
	}

	if err := item.Apply(next); err != nil {
		return err
	}
	return repos.InvoiceItems().Save(ctx, item)
}

// remove returns the line quantity to stock and deletes the line
func (e itemEngine) remove(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	item *invoicing.InvoiceItem,
	movements *appinventory.Movements,
) error {
	if err := inv.EnsureItemsMutable(); err != nil {
		return err
	}
	if item.ReferencesStock() {
		if err := e.move(ctx, repos, inv, item.Input(), item.Quantity, appinventory.ReasonInvoiceItem, movements); err != nil {
			return err
		}
	}
	return repos.InvoiceItems().Delete(ctx, item.ID)
}

// restock returns the quantity of every stock-backed line without touching
// the lines themselves. Used when a whole invoice is cancelled or discarded.
func (e itemEngine) restock(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	items []invoicing.InvoiceItem,
	reason string,
	movements *appinventory.Movements,
) error {
	for i := range items {
		if !items[i].ReferencesStock() {
			continue
		}
		if err := e.move(ctx, repos, inv, items[i].Input(), items[i].Quantity, reason, movements); err != nil {
			return err
		}
	}
	return nil
}

// checkReference rejects an inventory item of another tenant, or one that does
// not exist, whatever the line type. A service line may point at a stock item
// without moving stock, but the reference must still be valid.
func (e itemEngine) checkReference(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	line invoicing.LineInput,
) error {
	if line.InventoryItemID == nil {
		return nil
	}
	_, err := appinventory.LoadItem(ctx, repos, inv.TenantID, *line.InventoryItemID)
	return err
}

func (e itemEngine) move(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	inv *invoicing.Invoice,
	line invoicing.LineInput,
	delta int,
	reason string,
	movements *appinventory.Movements,
) error {
	mv, err := e.ledger.Adjust(ctx, repos, inv.TenantID, *line.InventoryItemID, inv.LocationID, delta)
	if err != nil {
		return err
	}
	movements.Record(mv, reason)
	return nil
}
