package persistence

import (
	"context"

	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error, the
// transaction is rolled back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Repositories hands out repositories bound to one *gorm.DB. Bound to a
// transaction handle, every repository it returns shares that transaction.
type Repositories struct {
	db *gorm.DB
}

// NewRepositories creates a Repositories set on db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{db: db}
}

func (r *Repositories) Locations() inventory.LocationRepository {
	return NewGormLocationRepository(r.db)
}

func (r *Repositories) InventoryItems() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.db)
}

func (r *Repositories) Quantities() inventory.QuantityRepository {
	return NewGormQuantityRepository(r.db)
}

func (r *Repositories) Transfers() inventory.TransferRepository {
	return NewGormTransferRepository(r.db)
}

func (r *Repositories) Invoices() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.db)
}

func (r *Repositories) InvoiceItems() invoicing.InvoiceItemRepository {
	return NewGormInvoiceItemRepository(r.db)
}

func (r *Repositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.db)
}

var (
	_ appinventory.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinventory.TransactionalRepositories = (*Repositories)(nil)
)
