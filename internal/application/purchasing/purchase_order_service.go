package purchasing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/purchasing"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultNumberPrefix  = "PO"
	defaultNumberRetries = 3
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	repos          appinventory.TransactionalRepositories
	txScope        appinventory.TransactionScope
	ledger         *appinventory.QuantityLedger
	locker         shared.NumberLocker
	numberPrefix   string
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(repos appinventory.TransactionalRepositories, txScope appinventory.TransactionScope) *PurchaseOrderService {
	return &PurchaseOrderService{
		repos:        repos,
		txScope:      txScope,
		ledger:       appinventory.NewQuantityLedger(),
		locker:       shared.NoopNumberLocker{},
		numberPrefix: defaultNumberPrefix,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for state transitions and publish failures
func (s *PurchaseOrderService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetNumberLocker sets the lock used around PO number generation
func (s *PurchaseOrderService) SetNumberLocker(locker shared.NumberLocker) {
	if locker != nil {
		s.locker = locker
	}
}

// SetNumberPrefix overrides the PO number prefix
func (s *PurchaseOrderService) SetNumberPrefix(prefix string) {
	if prefix != "" {
		s.numberPrefix = prefix
	}
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	release := s.locker.Acquire(ctx, shared.NumberLockKey("purchase_order", tenantID))
	defer release()

	var order *purchasing.PurchaseOrder
	var err error
	for attempt := 0; attempt < defaultNumberRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			if _, err := appinventory.LoadLocation(ctx, repos, tenantID, req.LocationID); err != nil {
				return err
			}
			number, err := repos.PurchaseOrders().GeneratePONumber(ctx, tenantID, s.numberPrefix)
			if err != nil {
				return err
			}
			order, err = purchasing.NewPurchaseOrder(tenantID, req.LocationID, number, req.SupplierName)
			if err != nil {
				return err
			}
			order.Notes = req.Notes

			for _, line := range req.Items {
				if _, err := appinventory.LoadItem(ctx, repos, tenantID, line.InventoryItemID); err != nil {
					return err
				}
				if _, err := order.AddItem(line.InventoryItemID, line.QuantityOrdered, line.UnitCost); err != nil {
					return err
				}
			}
			return repos.PurchaseOrders().Save(ctx, order)
		})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewAlreadyExistsError("Could not allocate a unique PO number, please retry")
		}
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := loadOrder(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List lists the tenant's purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter appinventory.ListFilter) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := s.repos.PurchaseOrders().FindAllForTenant(ctx, tenantID, filter.ToDomain())
	if err != nil {
		return nil, 0, err
	}
	result := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		result[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return result, total, nil
}

// Order moves a draft purchase order to ordered
func (s *PurchaseOrderService) Order(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.updateHeader(ctx, tenantID, id, (*purchasing.PurchaseOrder).PlaceOrder)
}

// Cancel cancels a draft or ordered purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.updateHeader(ctx, tenantID, id, (*purchasing.PurchaseOrder).Cancel)
}

// Receive books received goods into stock at the order's location.
//
// Every line is validated before anything is written; one invalid line
// rejects the whole receipt. The line updates, the ledger credits and the
// status change commit together.
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, id uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	lines := make([]purchasing.ReceiptLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = purchasing.ReceiptLine{ItemID: item.ItemID, QuantityReceived: item.QuantityReceived}
	}

	var order *purchasing.PurchaseOrder
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		var err error
		order, err = loadOrder(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}

		received, err := order.ApplyReceipt(lines)
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrders().SaveItems(ctx, order.Items); err != nil {
			return err
		}
		for _, item := range received {
			if item.QuantityReceived == 0 {
				continue
			}
			mv, err := s.ledger.Adjust(ctx, repos, tenantID, item.InventoryItemID, order.LocationID, item.QuantityReceived)
			if err != nil {
				return err
			}
			movements.Record(mv, appinventory.ReasonPurchaseReceipt)
		}
		if err := repos.PurchaseOrders().SaveHeader(ctx, order); err != nil {
			return err
		}
		movements.Add(order.GetDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.ClearDomainEvents()
	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	s.logger.Info("purchase order received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("po_number", order.PONumber),
		zap.Int("lines", len(lines)),
		zap.Int("units_received", order.TotalReceived()),
	)
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

func (s *PurchaseOrderService) updateHeader(ctx context.Context, tenantID, id uuid.UUID, fn func(*purchasing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = loadOrder(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveHeader(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

func loadOrder(ctx context.Context, repos appinventory.TransactionalRepositories, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	order, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Purchase order %s not found", id)
		}
		return nil, err
	}
	return order, nil
}
