package persistence

import (
	"strings"

	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// LocationSortFields contains allowed sort fields for locations
var LocationSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"cost_price":    true,
	"selling_price": true,
}

// TransferSortFields contains allowed sort fields for inventory transfers
var TransferSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"quantity":     true,
	"completed_at": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"status":         true,
	"total_amount":   true,
	"due_date":       true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"status":        true,
	"total_amount":  true,
	"received_date": true,
}

// paginate applies the whitelisted ordering and the page window of filter.
// Unknown sort fields fall back to created_at DESC.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
