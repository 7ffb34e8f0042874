package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/repairshop/backend/internal/application/inventory"
	purchasingapp "github.com/repairshop/backend/internal/application/purchasing"
)

// PurchaseOrderHandler serves purchase orders
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseOrderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseOrderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		purchaseOrderService: purchaseOrderService,
	}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req purchasingapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.purchaseOrderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.purchaseOrderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := filter.ToDomain()
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	h.withOrder(c, h.purchaseOrderService.GetByID)
}

// Order handles POST /purchase-orders/:id/order
func (h *PurchaseOrderHandler) Order(c *gin.Context) {
	h.withOrder(c, h.purchaseOrderService.Order)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.withOrder(c, h.purchaseOrderService.Cancel)
}

// Receive handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ReceivePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.purchaseOrderService.Receive(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

type orderAction func(ctx context.Context, tenantID, id uuid.UUID) (*purchasingapp.PurchaseOrderResponse, error)

func (h *PurchaseOrderHandler) withOrder(c *gin.Context, action orderAction) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
