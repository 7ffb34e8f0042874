package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/purchasing"
	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant loads a purchase order with its items in insertion order
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAllForTenant lists purchase orders without items, optionally by "status"
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []purchasing.PurchaseOrder
	if err := paginate(query, filter, PurchaseOrderSortFields).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates the order header and every item on it
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	if err := r.SaveHeader(ctx, order); err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].PurchaseOrderID = order.ID
	}
	return r.SaveItems(ctx, order.Items)
}

// SaveHeader creates or updates the order row only
func (r *GormPurchaseOrderRepository) SaveHeader(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error)
}

// SaveItems creates or updates the given items
func (r *GormPurchaseOrderRepository) SaveItems(ctx context.Context, items []purchasing.PurchaseOrderItem) error {
	for i := range items {
		if err := r.db.WithContext(ctx).Save(&items[i]).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// GeneratePONumber returns the next free PO number, e.g. PO-2026-00001
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return nextDocumentNumber(ctx, r.db, purchasing.PurchaseOrder{}.TableName(), "po_number", tenantID, prefix, time.Now())
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
