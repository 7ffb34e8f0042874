package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/repairshop/backend/internal/application/inventory"
)

// InventoryHandler serves locations and inventory items
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// CreateLocation handles POST /locations
func (h *InventoryHandler) CreateLocation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	location, err := h.inventoryService.CreateLocation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// ListLocations handles GET /locations
func (h *InventoryHandler) ListLocations(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	locations, total, err := h.inventoryService.ListLocations(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := filter.ToDomain()
	h.SuccessWithMeta(c, locations, total, page.Page, page.PageSize)
}

// GetLocation handles GET /locations/:id
func (h *InventoryHandler) GetLocation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	location, err := h.inventoryService.GetLocation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// CreateItem handles POST /inventory-items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateInventoryItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// listItemsQuery narrows the item list to one location
type listItemsQuery struct {
	inventoryapp.ListFilter
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
}

// ListItems handles GET /inventory-items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var query listItemsQuery
	if !h.bindQuery(c, &query) {
		return
	}
	var locationID *uuid.UUID
	if query.LocationID != "" {
		id := uuid.MustParse(query.LocationID)
		locationID = &id
	}

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), tenantID, query.ListFilter, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := query.ToDomain()
	h.SuccessWithMeta(c, items, total, page.Page, page.PageSize)
}

// GetItem handles GET /inventory-items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem handles DELETE /inventory-items/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "deleted": true})
}

// AdjustStock handles POST /inventory-items/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
