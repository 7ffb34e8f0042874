package inventory

import (
	"context"

	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the repositories that take
// part in stock-moving operations. Every ledger adjustment and the business
// write that caused it run inside one Execute call, so they commit or roll
// back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	Locations() inventory.LocationRepository
	InventoryItems() inventory.InventoryItemRepository
	// Quantities is the storage of the quantity ledger. Only QuantityLedger writes to it.
	Quantities() inventory.QuantityRepository
	Transfers() inventory.TransferRepository
	Invoices() invoicing.InvoiceRepository
	InvoiceItems() invoicing.InvoiceItemRepository
	PurchaseOrders() purchasing.PurchaseOrderRepository
}
