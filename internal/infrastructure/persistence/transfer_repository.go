package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByIDForTenant finds a transfer by ID within a tenant
func (r *GormTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	var transfer inventory.InventoryTransfer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&transfer).Error; err != nil {
		return nil, translateError(err)
	}
	return &transfer, nil
}

// FindAllForTenant lists transfers, optionally by "status"
func (r *GormTransferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransfer, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransfer{}).
		Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transfers []inventory.InventoryTransfer
	if err := paginate(query, filter, TransferSortFields).Find(&transfers).Error; err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}

// Save creates or updates a transfer
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.InventoryTransfer) error {
	return translateError(r.db.WithContext(ctx).Save(transfer).Error)
}

var _ inventory.TransferRepository = (*GormTransferRepository)(nil)
