package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles locations, inventory items and manual stock corrections
type InventoryService struct {
	repos          TransactionalRepositories
	txScope        TransactionScope
	ledger         *QuantityLedger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService. repos serves reads;
// every write runs inside txScope.
func NewInventoryService(repos TransactionalRepositories, txScope TransactionScope) *InventoryService {
	return &InventoryService{
		repos:   repos,
		txScope: txScope,
		ledger:  NewQuantityLedger(),
		logger:  zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for state transitions and publish failures
func (s *InventoryService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateLocation creates a new location
func (s *InventoryService) CreateLocation(ctx context.Context, tenantID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	location, err := inventory.NewLocation(tenantID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Locations().Save(ctx, location); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(location)
	return &resp, nil
}

// GetLocation retrieves a location by ID
func (s *InventoryService) GetLocation(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	location, err := LoadLocation(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(location)
	return &resp, nil
}

// ListLocations lists the tenant's locations
func (s *InventoryService) ListLocations(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]LocationResponse, int64, error) {
	locations, total, err := s.repos.Locations().FindAllForTenant(ctx, tenantID, filter.ToDomain())
	if err != nil {
		return nil, 0, err
	}
	result := make([]LocationResponse, len(locations))
	for i := range locations {
		result[i] = ToLocationResponse(&locations[i])
	}
	return result, total, nil
}

// DeleteLocation soft deletes a location
func (s *InventoryService) DeleteLocation(ctx context.Context, tenantID, id uuid.UUID) error {
	location, err := LoadLocation(ctx, s.repos, tenantID, id)
	if err != nil {
		return err
	}
	location.MarkDeleted()
	return s.repos.Locations().Save(ctx, location)
}

// CreateItem creates an inventory item at its home location and books any
// opening quantity through the ledger in the same transaction.
func (s *InventoryService) CreateItem(ctx context.Context, tenantID uuid.UUID, req CreateInventoryItemRequest) (*InventoryItemResponse, error) {
	track := true
	if req.TrackQuantity != nil {
		track = *req.TrackQuantity
	}
	item, err := inventory.NewInventoryItem(tenantID, req.LocationID, req.SKU, req.Name, req.CostPrice, req.SellingPrice, track)
	if err != nil {
		return nil, err
	}
	if err := item.SetReorderLevel(req.ReorderLevel); err != nil {
		return nil, err
	}
	if req.OpeningQuantity < 0 {
		return nil, shared.NewBadRequestError("Opening quantity cannot be negative")
	}

	var movements Movements
	var rows []inventory.LocationQuantity
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements.Reset()
		if _, err := LoadLocation(ctx, repos, tenantID, req.LocationID); err != nil {
			return err
		}
		exists, err := repos.InventoryItems().ExistsBySKUAtLocation(ctx, tenantID, item.SKU, item.LocationID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewAlreadyExistsError("An item with SKU %s already exists at this location", item.SKU)
		}
		if err := repos.InventoryItems().Save(ctx, item); err != nil {
			return err
		}

		mv, err := s.ledger.AdjustItem(ctx, repos, item, item.LocationID, req.OpeningQuantity)
		if err != nil {
			return err
		}
		movements.Record(mv, ReasonOpeningStock)

		rows, err = repos.Quantities().FindByItem(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	resp := ToInventoryItemResponse(item, rows)
	return &resp, nil
}

// GetItem retrieves an inventory item with its per-location quantities
func (s *InventoryService) GetItem(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := LoadItem(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Quantities().FindByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryItemResponse(item, rows)
	return &resp, nil
}

// ListItems lists the tenant's inventory items without quantities
func (s *InventoryService) ListItems(ctx context.Context, tenantID uuid.UUID, filter ListFilter, locationID *uuid.UUID) ([]InventoryItemResponse, int64, error) {
	domainFilter := filter.ToDomain()
	if locationID != nil {
		domainFilter.Filters["location_id"] = *locationID
	}
	items, total, err := s.repos.InventoryItems().FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]InventoryItemResponse, len(items))
	for i := range items {
		result[i] = ToInventoryItemResponse(&items[i], nil)
	}
	return result, total, nil
}

// DeleteItem soft deletes an inventory item. Its ledger rows are kept so that
// stock still referenced by invoices or transfers can be returned.
func (s *InventoryService) DeleteItem(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := LoadItem(ctx, s.repos, tenantID, id); err != nil {
		return err
	}
	return s.repos.InventoryItems().SoftDelete(ctx, tenantID, id)
}

// AdjustStock applies a manual correction through the ledger
func (s *InventoryService) AdjustStock(ctx context.Context, tenantID, itemID uuid.UUID, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewBadRequestError("Adjustment delta cannot be 0")
	}
	reason := req.Reason
	if reason == "" {
		reason = ReasonManualAdjustment
	}

	var movements Movements
	var quantity int
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements.Reset()
		item, err := LoadItem(ctx, repos, tenantID, itemID)
		if err != nil {
			return err
		}
		if !item.TrackQuantity {
			return shared.NewBadRequestError("Inventory item %s does not track quantity", item.SKU)
		}
		if _, err := LoadLocation(ctx, repos, tenantID, req.LocationID); err != nil {
			return err
		}
		mv, err := s.ledger.AdjustItem(ctx, repos, item, req.LocationID, req.Delta)
		if err != nil {
			return err
		}
		movements.Record(mv, reason)
		quantity = mv.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	return &StockAdjustmentResponse{
		InventoryItemID: itemID,
		LocationID:      req.LocationID,
		Delta:           req.Delta,
		Quantity:        quantity,
	}, nil
}
