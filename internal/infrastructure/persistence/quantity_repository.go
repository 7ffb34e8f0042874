package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuantityRepository stores per-location quantities. Quantities change
// only through Increment, a single conditional UPDATE, so concurrent writers
// never read-modify-write a stale value.
type GormQuantityRepository struct {
	db *gorm.DB
}

// NewGormQuantityRepository creates a new GormQuantityRepository
func NewGormQuantityRepository(db *gorm.DB) *GormQuantityRepository {
	return &GormQuantityRepository{db: db}
}

// EnsureRow inserts a zero row for the (item, location) pair, doing nothing
// when the pair already has one
func (r *GormQuantityRepository) EnsureRow(ctx context.Context, row *inventory.LocationQuantity) error {
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "inventory_item_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(row).Error)
}

// Increment applies quantity = quantity + delta. With guardNonNegative the
// row only matches when the result stays >= 0; false is returned when no row
// was changed.
func (r *GormQuantityRepository) Increment(ctx context.Context, itemID, locationID uuid.UUID, delta int, guardNonNegative bool) (bool, error) {
	query := r.db.WithContext(ctx).Model(&inventory.LocationQuantity{}).
		Where("inventory_item_id = ? AND location_id = ?", itemID, locationID)
	if guardNonNegative {
		query = query.Where("quantity + ? >= 0", delta)
	}

	result := query.Updates(map[string]any{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetQuantity returns the stored quantity, or 0 when the pair has no row
func (r *GormQuantityRepository) GetQuantity(ctx context.Context, itemID, locationID uuid.UUID) (int, error) {
	var rows []inventory.LocationQuantity
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND location_id = ?", itemID, locationID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Quantity, nil
}

// FindByItem returns every location row of an item
func (r *GormQuantityRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.LocationQuantity, error) {
	var rows []inventory.LocationQuantity
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ inventory.QuantityRepository = (*GormQuantityRepository)(nil)
