package invoicing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceConfig holds the invoice numbering and due-date settings
type ServiceConfig struct {
	NumberPrefix   string
	NumberRetries  int
	DefaultDueDays int
}

// DefaultServiceConfig returns the defaults used when no configuration is given
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		NumberPrefix:   "INV",
		NumberRetries:  3,
		DefaultDueDays: 30,
	}
}

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	repos          appinventory.TransactionalRepositories
	txScope        appinventory.TransactionScope
	engine         itemEngine
	recalculator   *Recalculator
	locker         shared.NumberLocker
	config         ServiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repos appinventory.TransactionalRepositories, txScope appinventory.TransactionScope, config ServiceConfig) *InvoiceService {
	defaults := DefaultServiceConfig()
	if config.NumberPrefix == "" {
		config.NumberPrefix = defaults.NumberPrefix
	}
	if config.NumberRetries <= 0 {
		config.NumberRetries = defaults.NumberRetries
	}
	if config.DefaultDueDays <= 0 {
		config.DefaultDueDays = defaults.DefaultDueDays
	}
	return &InvoiceService{
		repos:        repos,
		txScope:      txScope,
		engine:       newItemEngine(),
		recalculator: NewRecalculator(),
		locker:       shared.NoopNumberLocker{},
		config:       config,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for state transitions and publish failures
func (s *InvoiceService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetNumberLocker sets the lock used around invoice number generation
func (s *InvoiceService) SetNumberLocker(locker shared.NumberLocker) {
	if locker != nil {
		s.locker = locker
	}
}

// Create creates a draft invoice with a freshly generated number and adds
// any requested items. Number collisions with a concurrent writer are retried.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	lines := make([]invoicing.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = item.ToLineInput()
		if err := lines[i].Validate(); err != nil {
			return nil, err
		}
	}

	release := s.locker.Acquire(ctx, shared.NumberLockKey("invoice", tenantID))
	defer release()

	var inv *invoicing.Invoice
	var movements appinventory.Movements
	var err error
	for attempt := 0; attempt < s.config.NumberRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			movements.Reset()
			if _, err := appinventory.LoadLocation(ctx, repos, tenantID, req.LocationID); err != nil {
				return err
			}
			number, err := repos.Invoices().GenerateInvoiceNumber(ctx, tenantID, s.config.NumberPrefix)
			if err != nil {
				return err
			}
			created, err := invoicing.NewInvoice(tenantID, req.LocationID, number, req.TaxRate, req.DiscountAmount)
			if err != nil {
				return err
			}
			created.CustomerID = req.CustomerID
			created.Notes = req.Notes
			due := s.now().AddDate(0, 0, s.config.DefaultDueDays)
			if req.DueDate != nil {
				due = *req.DueDate
			}
			created.DueDate = &due
			if err := repos.Invoices().Save(ctx, created); err != nil {
				return err
			}

			for _, in := range lines {
				if _, err := s.engine.add(ctx, repos, created, in, &movements); err != nil {
					return err
				}
			}
			inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, created.ID)
			return err
		})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewAlreadyExistsError("Could not allocate a unique invoice number, please retry")
		}
		return nil, err
	}

	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := loadInvoiceWithItems(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List lists the tenant's invoices without items
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter appinventory.ListFilter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.repos.Invoices().FindAllForTenant(ctx, tenantID, filter.ToDomain())
	if err != nil {
		return nil, 0, err
	}
	result := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		result[i] = ToInvoiceResponse(&invoices[i])
	}
	return result, total, nil
}

// Issue moves a draft invoice to issued
func (s *InvoiceService) Issue(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, id, func(_ appinventory.TransactionalRepositories, inv *invoicing.Invoice, _ *appinventory.Movements) error {
		return inv.Issue()
	})
}

// MarkPaid records payment of an issued or overdue invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, id, func(_ appinventory.TransactionalRepositories, inv *invoicing.Invoice, _ *appinventory.Movements) error {
		return inv.MarkPaid()
	})
}

// Cancel cancels the invoice and returns the stock of its inventory-backed items
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, id, func(repos appinventory.TransactionalRepositories, inv *invoicing.Invoice, movements *appinventory.Movements) error {
		if err := inv.Cancel(); err != nil {
			return err
		}
		return s.engine.restock(ctx, repos, inv, inv.Items, appinventory.ReasonInvoiceCancelled, movements)
	})
}

// SetTerms changes the tax rate and invoice-level discount and recalculates
func (s *InvoiceService) SetTerms(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceTermsRequest) (*InvoiceResponse, error) {
	var inv *invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		current, err := loadInvoice(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := current.SetTerms(req.TaxRate, req.DiscountAmount); err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, current); err != nil {
			return err
		}
		inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Recalculate rebuilds the invoice totals from its items
func (s *InvoiceService) Recalculate(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	var inv *invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		inv, err = s.recalculator.Recalculate(ctx, repos, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete soft deletes a draft or cancelled invoice. Deleting a draft returns
// its stock; a cancelled invoice already did so when it was cancelled.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		inv, err := loadInvoiceWithItems(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if !inv.CanDelete() {
			return shared.NewBadRequestError("Only draft or cancelled invoices can be deleted, invoice %s is %s", inv.InvoiceNumber, inv.Status)
		}
		if inv.Status == invoicing.InvoiceStatusDraft {
			if err := s.engine.restock(ctx, repos, inv, inv.Items, appinventory.ReasonInvoiceDeleted, &movements); err != nil {
				return err
			}
		}
		return repos.Invoices().SoftDelete(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	return nil
}

// MarkOverdueInvoices moves issued invoices past their due date to overdue.
// Each invoice is updated in its own transaction; failures are joined and the
// sweep continues.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, limit int) (int, error) {
	now := s.now()
	candidates, err := s.repos.Invoices().FindOverdue(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	var errs []error
	marked := 0
	for _, candidate := range candidates {
		_, err := s.transition(ctx, candidate.TenantID, candidate.ID, func(_ appinventory.TransactionalRepositories, inv *invoicing.Invoice, _ *appinventory.Movements) error {
			return inv.MarkOverdue(now)
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		marked++
	}
	if len(candidates) > 0 {
		s.logger.Info("overdue sweep finished",
			zap.Int("candidates", len(candidates)),
			zap.Int("marked", marked),
			zap.Int("failed", len(errs)),
		)
	}
	return marked, errors.Join(errs...)
}

// transition loads the invoice with its items, applies fn and saves the header
// in one transaction, then publishes the collected events.
func (s *InvoiceService) transition(
	ctx context.Context,
	tenantID, id uuid.UUID,
	fn func(repos appinventory.TransactionalRepositories, inv *invoicing.Invoice, movements *appinventory.Movements) error,
) (*InvoiceResponse, error) {
	var inv *invoicing.Invoice
	var movements appinventory.Movements
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		movements.Reset()
		var err error
		inv, err = loadInvoiceWithItems(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := fn(repos, inv, &movements); err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		movements.Add(inv.GetDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	inv.ClearDomainEvents()
	appinventory.PublishEvents(ctx, s.eventPublisher, s.logger, movements.Events())
	s.logger.Info("invoice updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", string(inv.Status)),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}
