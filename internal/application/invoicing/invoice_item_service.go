package invoicing

import (
	"context"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceItemService creates, updates and deletes invoice lines. Every call
// adjusts stock for inventory-backed lines, writes the line and recalculates
// the invoice in one transaction.
type InvoiceItemService struct {
	txScope        appinventory.TransactionScope
	engine         itemEngine
	recalculator   *Recalculator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceItemService creates a new InvoiceItemService
func NewInvoiceItemService(txScope appinventory.TransactionScope) *InvoiceItemService {
	return &InvoiceItemService{
		txScope:      txScope,
		engine:       newItemEngine(),
		recalculator: NewRecalculator(),
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for state transitions and publish failures
func (s *InvoiceItemService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create adds a line to an invoice that is not paid or cancelled
func (s *InvoiceItemService) Create(ctx context.Context, tenantID, invoiceID uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceItemResult, error) {
	in := req.ToLineInput()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item *invoicing.InvoiceItem
	var inv *invoicing.Invoice
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		current, err := loadInvoice(ctx, repos, tenantID, invoiceID)
		if err != nil {
			return err
		}
		item, err = s.engine.add(ctx, repos, current, in, &movements)
		if err != nil {
			return err
		}
		inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	itemResp := ToInvoiceItemResponse(item)
	return &InvoiceItemResult{Item: &itemResp, Totals: ToInvoiceTotalsResponse(inv)}, nil
}

// Update changes a line and moves the stock difference
func (s *InvoiceItemService) Update(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req UpdateInvoiceItemRequest) (*InvoiceItemResult, error) {
	var item *invoicing.InvoiceItem
	var inv *invoicing.Invoice
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		current, err := loadInvoice(ctx, repos, tenantID, invoiceID)
		if err != nil {
			return err
		}
		item, err = loadInvoiceItem(ctx, repos, tenantID, invoiceID, itemID)
		if err != nil {
			return err
		}
		next := req.Merge(item.Input())
		if err := s.engine.change(ctx, repos, current, item, next, &movements); err != nil {
			return err
		}
		inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	itemResp := ToInvoiceItemResponse(item)
	return &InvoiceItemResult{Item: &itemResp, Totals: ToInvoiceTotalsResponse(inv)}, nil
}

// Delete removes a line and returns its stock
func (s *InvoiceItemService) Delete(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceItemResult, error) {
	var inv *invoicing.Invoice
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		current, err := loadInvoice(ctx, repos, tenantID, invoiceID)
		if err != nil {
			return err
		}
		item, err := loadInvoiceItem(ctx, repos, tenantID, invoiceID, itemID)
		if err != nil {
			return err
		}
		if err := s.engine.remove(ctx, repos, current, item, &movements); err != nil {
			return err
		}
		inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	return &InvoiceItemResult{Totals: ToInvoiceTotalsResponse(inv)}, nil
}

func loadInvoiceItem(ctx context.Context, repos appinventory.TransactionalRepositories, tenantID, invoiceID, id uuid.UUID) (*invoicing.InvoiceItem, error) {
	item, err := repos.InvoiceItems().FindByIDForInvoice(ctx, tenantID, invoiceID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Invoice item %s not found", id)
		}
		return nil, err
	}
	return item, nil
}
