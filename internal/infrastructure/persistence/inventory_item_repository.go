package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds a live inventory item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByIDIncludingDeleted finds an inventory item whether or not it was soft deleted
func (r *GormInventoryItemRepository) FindByIDIncludingDeleted(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindAllForTenant lists live inventory items, optionally restricted to a
// home location through the "location_id" filter
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	if locationID, ok := filter.Filters["location_id"]; ok {
		query = query.Where("location_id = ?", locationID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.InventoryItem
	if err := paginate(query, filter, InventoryItemSortFields).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindBySKUAtLocation finds the live item with the SKU whose home is locationID
func (r *GormInventoryItemRepository) FindBySKUAtLocation(ctx context.Context, tenantID uuid.UUID, sku string, locationID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ? AND location_id = ? AND deleted_at IS NULL", tenantID, sku, locationID).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// ExistsBySKUAtLocation checks if a live item with the SKU is homed at locationID
func (r *GormInventoryItemRepository) ExistsBySKUAtLocation(ctx context.Context, tenantID uuid.UUID, sku string, locationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND sku = ? AND location_id = ? AND deleted_at IS NULL", tenantID, sku, locationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// UpdateLocation moves the item's home location without touching other columns
func (r *GormInventoryItemRepository) UpdateLocation(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND id = ?", item.TenantID, item.ID).
		Updates(map[string]any{
			"location_id": item.LocationID,
			"updated_at":  item.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on a live item
func (r *GormInventoryItemRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
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

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
