package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransferService moves stock between two locations of the same tenant.
//
// Stock leaves the source when the transfer is created. Completing it credits
// the destination; cancelling it credits the source again.
type TransferService struct {
	repos          TransactionalRepositories
	txScope        TransactionScope
	ledger         *QuantityLedger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(repos TransactionalRepositories, txScope TransactionScope) *TransferService {
	return &TransferService{
		repos:   repos,
		txScope: txScope,
		ledger:  NewQuantityLedger(),
		logger:  zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for state transitions and publish failures
func (s *TransferService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create validates the request, debits the source location and stores a
// pending transfer.
func (s *TransferService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	transfer, err := inventory.NewInventoryTransfer(tenantID, req.InventoryItemID, req.FromLocationID, req.ToLocationID, req.Quantity, req.Notes)
	if err != nil {
		return nil, err
	}

	var movements Movements
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements.Reset()
		if _, err := LoadLocation(ctx, repos, tenantID, transfer.FromLocationID); err != nil {
			return err
		}
		if _, err := LoadLocation(ctx, repos, tenantID, transfer.ToLocationID); err != nil {
			return err
		}
		item, err := LoadItem(ctx, repos, tenantID, transfer.InventoryItemID)
		if err != nil {
			return err
		}
		if !item.TrackQuantity {
			return shared.NewBadRequestError("Inventory item %s does not track quantity and cannot be transferred", item.SKU)
		}
		if _, err := destinationItem(ctx, repos, tenantID, item.SKU, transfer.ToLocationID); err != nil {
			return err
		}

		mv, err := s.ledger.AdjustItem(ctx, repos, item, transfer.FromLocationID, -transfer.Quantity)
		if err != nil {
			return err
		}
		movements.Record(mv, ReasonTransferOut)

		return repos.Transfers().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Complete credits the destination. If an item with the same SKU already lives
// at the destination it receives the stock; otherwise the original item is
// relocated there and credited.
func (s *TransferService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*TransferResponse, error) {
	var transfer *inventory.InventoryTransfer
	var movements Movements
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements.Reset()
		var err error
		transfer, err = loadTransfer(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := transfer.CheckTransition(inventory.TransferStatusCompleted); err != nil {
			return err
		}

		item, err := repos.InventoryItems().FindByIDIncludingDeleted(ctx, tenantID, transfer.InventoryItemID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFoundError("Inventory item %s not found", transfer.InventoryItemID)
			}
			return err
		}

		target, err := destinationItem(ctx, repos, tenantID, item.SKU, transfer.ToLocationID)
		if err != nil {
			return err
		}
		if target == nil {
			item.RelocateTo(transfer.ToLocationID)
			if err := repos.InventoryItems().UpdateLocation(ctx, item); err != nil {
				return err
			}
			movements.Add(item.GetDomainEvents()...)
			item.ClearDomainEvents()
			target = item
		}

		mv, err := s.ledger.AdjustItem(ctx, repos, target, transfer.ToLocationID, transfer.Quantity)
		if err != nil {
			return err
		}
		movements.Record(mv, ReasonTransferIn)

		if err := transfer.Complete(target.ID); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		movements.Add(transfer.GetDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	transfer.ClearDomainEvents()
	PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	s.logger.Info("transfer completed",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("inventory_item_id", transfer.InventoryItemID.String()),
		zap.Int("quantity", transfer.Quantity),
	)
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Cancel returns the in-transit quantity to the source location
func (s *TransferService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*TransferResponse, error) {
	var transfer *inventory.InventoryTransfer
	var movements Movements
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements.Reset()
		var err error
		transfer, err = loadTransfer(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := transfer.CheckTransition(inventory.TransferStatusCancelled); err != nil {
			return err
		}

		mv, err := s.ledger.Adjust(ctx, repos, tenantID, transfer.InventoryItemID, transfer.FromLocationID, transfer.Quantity)
		if err != nil {
			return err
		}
		movements.Record(mv, ReasonTransferReturned)

		if err := transfer.Cancel(); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		movements.Add(transfer.GetDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	transfer.ClearDomainEvents()
	PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	s.logger.Info("transfer cancelled",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("inventory_item_id", transfer.InventoryItemID.String()),
		zap.Int("quantity", transfer.Quantity),
	)
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Get retrieves a transfer by ID
func (s *TransferService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TransferResponse, error) {
	transfer, err := loadTransfer(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// List lists the tenant's transfers, optionally filtered by status
func (s *TransferService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]TransferResponse, int64, error) {
	transfers, total, err := s.repos.Transfers().FindAllForTenant(ctx, tenantID, filter.ToDomain())
	if err != nil {
		return nil, 0, err
	}
	result := make([]TransferResponse, len(transfers))
	for i := range transfers {
		result[i] = ToTransferResponse(&transfers[i])
	}
	return result, total, nil
}

// destinationItem returns the same-SKU item stocked at the destination, or nil
// when there is none. An untracked match cannot hold the transferred units and
// the SKU is unique per location, so such a transfer is rejected.
func destinationItem(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, sku string, locationID uuid.UUID) (*inventory.InventoryItem, error) {
	target, err := repos.InventoryItems().FindBySKUAtLocation(ctx, tenantID, sku, locationID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !target.TrackQuantity {
		return nil, shared.NewBadRequestError("Inventory item %s (%s) at the destination does not track quantity and cannot receive transferred stock", sku, target.ID)
	}
	return target, nil
}

func loadTransfer(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	transfer, err := repos.Transfers().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Transfer %s not found", id)
		}
		return nil, err
	}
	return transfer, nil
}
