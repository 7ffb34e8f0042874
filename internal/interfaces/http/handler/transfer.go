package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/repairshop/backend/internal/application/inventory"
)

// TransferHandler serves inventory transfers between locations
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Create handles POST /inventory-transfers
func (h *TransferHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// List handles GET /inventory-transfers
func (h *TransferHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := filter.ToDomain()
	h.SuccessWithMeta(c, transfers, total, page.Page, page.PageSize)
}

// Get handles GET /inventory-transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	h.withTransfer(c, h.transferService.Get)
}

// Complete handles POST /inventory-transfers/:id/complete
func (h *TransferHandler) Complete(c *gin.Context) {
	h.withTransfer(c, h.transferService.Complete)
}

// Cancel handles POST /inventory-transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	h.withTransfer(c, h.transferService.Cancel)
}

type transferAction func(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.TransferResponse, error)

func (h *TransferHandler) withTransfer(c *gin.Context, action transferAction) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	transfer, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}
