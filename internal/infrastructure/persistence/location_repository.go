package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByIDForTenant finds a live location by ID within a tenant
func (r *GormLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Location, error) {
	var location inventory.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&location).Error; err != nil {
		return nil, translateError(err)
	}
	return &location, nil
}

// FindAllForTenant lists live locations of a tenant
func (r *GormLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Location, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Location{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var locations []inventory.Location
	if err := paginate(query, filter, LocationSortFields).Find(&locations).Error; err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *inventory.Location) error {
	return translateError(r.db.WithContext(ctx).Save(location).Error)
}

var _ inventory.LocationRepository = (*GormLocationRepository)(nil)
