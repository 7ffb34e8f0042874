package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"max=255"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLocationResponse converts a domain Location to LocationResponse
func ToLocationResponse(l *inventory.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		TenantID:  l.TenantID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// CreateInventoryItemRequest represents a request to create an inventory item.
// OpeningQuantity is booked through the ledger at the item's home location.
type CreateInventoryItemRequest struct {
	LocationID      uuid.UUID       `json:"location_id" binding:"required"`
	SKU             string          `json:"sku" binding:"required,max=64"`
	Name            string          `json:"name" binding:"required,max=200"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	TrackQuantity   *bool           `json:"track_quantity"`
	ReorderLevel    int             `json:"reorder_level" binding:"min=0"`
	OpeningQuantity int             `json:"opening_quantity" binding:"min=0"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Delta      int       `json:"delta" binding:"required"`
	Reason     string    `json:"reason" binding:"max=255"`
}

// LocationQuantityResponse is the on-hand quantity of an item at one location
type LocationQuantityResponse struct {
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int       `json:"quantity"`
}

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID            uuid.UUID                  `json:"id"`
	TenantID      uuid.UUID                  `json:"tenant_id"`
	LocationID    uuid.UUID                  `json:"location_id"`
	SKU           string                     `json:"sku"`
	Name          string                     `json:"name"`
	CostPrice     decimal.Decimal            `json:"cost_price"`
	SellingPrice  decimal.Decimal            `json:"selling_price"`
	TrackQuantity bool                       `json:"track_quantity"`
	ReorderLevel  int                        `json:"reorder_level"`
	TotalQuantity int                        `json:"total_quantity"`
	Quantities    []LocationQuantityResponse `json:"quantities,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ToInventoryItemResponse converts a domain InventoryItem and its ledger rows
func ToInventoryItemResponse(item *inventory.InventoryItem, rows []inventory.LocationQuantity) InventoryItemResponse {
	resp := InventoryItemResponse{
		ID:            item.ID,
		TenantID:      item.TenantID,
		LocationID:    item.LocationID,
		SKU:           item.SKU,
		Name:          item.Name,
		CostPrice:     item.CostPrice,
		SellingPrice:  item.SellingPrice,
		TrackQuantity: item.TrackQuantity,
		ReorderLevel:  item.ReorderLevel,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	for _, row := range rows {
		resp.Quantities = append(resp.Quantities, LocationQuantityResponse{
			LocationID: row.LocationID,
			Quantity:   row.Quantity,
		})
		resp.TotalQuantity += row.Quantity
	}
	return resp
}

// StockAdjustmentResponse reports the result of a ledger adjustment
type StockAdjustmentResponse struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	LocationID      uuid.UUID `json:"location_id"`
	Delta           int       `json:"delta"`
	Quantity        int       `json:"quantity"`
}

// CreateTransferRequest represents a request to move stock between locations
type CreateTransferRequest struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" binding:"required"`
	FromLocationID  uuid.UUID `json:"from_location_id" binding:"required"`
	ToLocationID    uuid.UUID `json:"to_location_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

// TransferResponse represents an inventory transfer in API responses
type TransferResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	InventoryItemID   uuid.UUID  `json:"inventory_item_id"`
	DestinationItemID *uuid.UUID `json:"destination_item_id,omitempty"`
	FromLocationID    uuid.UUID  `json:"from_location_id"`
	ToLocationID      uuid.UUID  `json:"to_location_id"`
	Quantity          int        `json:"quantity"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToTransferResponse converts a domain InventoryTransfer to TransferResponse
func ToTransferResponse(t *inventory.InventoryTransfer) TransferResponse {
	return TransferResponse{
		ID:                t.ID,
		TenantID:          t.TenantID,
		InventoryItemID:   t.InventoryItemID,
		DestinationItemID: t.DestinationItemID,
		FromLocationID:    t.FromLocationID,
		ToLocationID:      t.ToLocationID,
		Quantity:          t.Quantity,
		Status:            string(t.Status),
		Notes:             t.Notes,
		CompletedAt:       t.CompletedAt,
		CancelledAt:       t.CancelledAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// ListFilter represents pagination options shared by list endpoints
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status"`
}

// ToDomain converts the filter to a shared.Filter with defaults applied
func (f ListFilter) ToDomain() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}
