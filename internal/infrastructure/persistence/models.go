package persistence

import (
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/purchasing"
)

// Models lists every persisted entity in dependency order. Production schemas
// come from migrations/; AutoMigrate over Models is for throwaway databases.
func Models() []any {
	return []any{
		&inventory.Location{},
		&inventory.InventoryItem{},
		&inventory.LocationQuantity{},
		&inventory.InventoryTransfer{},
		&invoicing.Invoice{},
		&invoicing.InvoiceItem{},
		&purchasing.PurchaseOrder{},
		&purchasing.PurchaseOrderItem{},
	}
}
