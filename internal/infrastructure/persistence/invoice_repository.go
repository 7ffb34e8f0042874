package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant loads the header of a live invoice
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var inv invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&inv).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

// FindByIDWithItems loads a live invoice and its items in insertion order
func (r *GormInvoiceRepository) FindByIDWithItems(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var inv invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&inv).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

// FindAllForTenant lists live invoices without items, optionally by "status"
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []invoicing.Invoice
	if err := paginate(query, filter, InvoiceSortFields).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// FindOverdue returns issued invoices of every tenant whose due date has passed
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]invoicing.Invoice, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ? AND deleted_at IS NULL", invoicing.InvoiceStatusIssued, now).
		Order("due_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var invoices []invoicing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save updates the header of an existing invoice or inserts a new one. The
// stored totals are left alone on update; only UpdateTotals writes them.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoicing.Invoice) error {
	result := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
		Where("tenant_id = ? AND id = ?", inv.TenantID, inv.ID).
		Updates(map[string]any{
			"customer_id":     inv.CustomerID,
			"status":          inv.Status,
			"tax_rate":        inv.TaxRate,
			"discount_amount": inv.DiscountAmount,
			"notes":           inv.Notes,
			"due_date":        inv.DueDate,
			"issued_at":       inv.IssuedAt,
			"paid_at":         inv.PaidAt,
			"cancelled_at":    inv.CancelledAt,
			"updated_at":      inv.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error)
}

// UpdateTotals writes the three derived amounts in one statement
func (r *GormInvoiceRepository) UpdateTotals(ctx context.Context, inv *invoicing.Invoice) error {
	result := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", inv.TenantID, inv.ID).
		Updates(map[string]any{
			"subtotal":     inv.Subtotal,
			"tax_amount":   inv.TaxAmount,
			"total_amount": inv.TotalAmount,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on a live invoice. Its items stay in place.
func (r *GormInvoiceRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		Updates(map[string]any{
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateInvoiceNumber returns the next free invoice number, e.g. INV-2026-00001
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return nextDocumentNumber(ctx, r.db, invoicing.Invoice{}.TableName(), "invoice_number", tenantID, prefix, time.Now())
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormInvoiceItemRepository implements InvoiceItemRepository using GORM.
// Items are hard deleted.
type GormInvoiceItemRepository struct {
	db *gorm.DB
}

// NewGormInvoiceItemRepository creates a new GormInvoiceItemRepository
func NewGormInvoiceItemRepository(db *gorm.DB) *GormInvoiceItemRepository {
	return &GormInvoiceItemRepository{db: db}
}

// FindByIDForInvoice finds an item of the given invoice within a tenant
func (r *GormInvoiceItemRepository) FindByIDForInvoice(ctx context.Context, tenantID, invoiceID, id uuid.UUID) (*invoicing.InvoiceItem, error) {
	var item invoicing.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ? AND id = ?", tenantID, invoiceID, id).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByInvoice returns the current items of an invoice in insertion order
func (r *GormInvoiceItemRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]invoicing.InvoiceItem, error) {
	var items []invoicing.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an invoice item
func (r *GormInvoiceItemRepository) Save(ctx context.Context, item *invoicing.InvoiceItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// Delete removes an invoice item
func (r *GormInvoiceItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&invoicing.InvoiceItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ invoicing.InvoiceItemRepository = (*GormInvoiceItemRepository)(nil)
