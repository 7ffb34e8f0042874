package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/repairshop/backend/internal/application/inventory"
	invoicingapp "github.com/repairshop/backend/internal/application/invoicing"
)

// InvoiceHandler serves invoices and their line items
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
	itemService    *invoicingapp.InvoiceItemService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService, itemService *invoicingapp.InvoiceItemService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		itemService:    itemService,
	}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req invoicingapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := filter.ToDomain()
	h.SuccessWithMeta(c, invoices, total, page.Page, page.PageSize)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	h.withInvoice(c, h.invoiceService.GetByID)
}

// Issue handles POST /invoices/:id/issue
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.withInvoice(c, h.invoiceService.Issue)
}

// Pay handles POST /invoices/:id/pay
func (h *InvoiceHandler) Pay(c *gin.Context) {
	h.withInvoice(c, h.invoiceService.MarkPaid)
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.withInvoice(c, h.invoiceService.Cancel)
}

// Recalculate handles POST /invoices/:id/recalculate
func (h *InvoiceHandler) Recalculate(c *gin.Context) {
	h.withInvoice(c, h.invoiceService.Recalculate)
}

// SetTerms handles PUT /invoices/:id/terms
func (h *InvoiceHandler) SetTerms(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicingapp.UpdateInvoiceTermsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.SetTerms(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "deleted": true})
}

// CreateItem handles POST /invoices/:id/items
func (h *InvoiceHandler) CreateItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicingapp.CreateInvoiceItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.itemService.Create(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdateItem handles PUT /invoices/:id/items/:itemId
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	tenantID, invoiceID, itemID, ok := h.itemPath(c)
	if !ok {
		return
	}
	var req invoicingapp.UpdateInvoiceItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.itemService.Update(c.Request.Context(), tenantID, invoiceID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteItem handles DELETE /invoices/:id/items/:itemId
func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	tenantID, invoiceID, itemID, ok := h.itemPath(c)
	if !ok {
		return
	}

	result, err := h.itemService.Delete(c.Request.Context(), tenantID, invoiceID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type invoiceAction func(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.InvoiceResponse, error)

func (h *InvoiceHandler) withInvoice(c *gin.Context, action invoiceAction) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *InvoiceHandler) itemPath(c *gin.Context) (tenantID, invoiceID, itemID uuid.UUID, ok bool) {
	if tenantID, ok = h.tenantID(c); !ok {
		return
	}
	if invoiceID, ok = h.pathID(c, "id"); !ok {
		return
	}
	itemID, ok = h.pathID(c, "itemId")
	return
}
