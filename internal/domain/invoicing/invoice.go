package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusIssued || target == InvoiceStatusCancelled
	case InvoiceStatusIssued:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false
	}
	return false
}

// AllowsItemChanges reports whether line items may be added, edited or removed
func (s InvoiceStatus) AllowsItemChanges() bool {
	return s != InvoiceStatusPaid && s != InvoiceStatusCancelled
}

// Invoice is a customer bill raised at a location.
//
// Subtotal, TaxAmount and TotalAmount are derived from the items and the
// invoice's own TaxRate and DiscountAmount. They are only ever written by
// ApplyTotals.
type Invoice struct {
	shared.TenantAggregateRoot
	LocationID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceNumber  string          `gorm:"type:varchar(50);not null"`
	Status         InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	DueDate        *time.Time
	IssuedAt       *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	DeletedAt      *time.Time    `gorm:"index"`
	Items          []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a draft invoice with zero totals
func NewInvoice(tenantID, locationID uuid.UUID, invoiceNumber string, taxRate, discountAmount decimal.Decimal) (*Invoice, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewBadRequestError("Location ID is required")
	}
	if invoiceNumber == "" {
		return nil, shared.NewBadRequestError("Invoice number is required")
	}
	if err := validateTerms(taxRate, discountAmount); err != nil {
		return nil, err
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		InvoiceNumber:       invoiceNumber,
		Status:              InvoiceStatusDraft,
		Subtotal:            decimal.Zero,
		TaxRate:             taxRate,
		TaxAmount:           decimal.Zero,
		DiscountAmount:      discountAmount,
		TotalAmount:         decimal.Zero,
		Items:               make([]InvoiceItem, 0),
	}
	inv.ApplyTotals(nil)
	return inv, nil
}

func validateTerms(taxRate, discountAmount decimal.Decimal) error {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewBadRequestError("Tax rate must be between 0 and 100, got %s", taxRate.String())
	}
	if discountAmount.IsNegative() {
		return shared.NewBadRequestError("Discount amount cannot be negative")
	}
	return nil
}

// SetTerms changes the tax rate and invoice-level discount. The caller must
// recalculate totals afterwards.
func (inv *Invoice) SetTerms(taxRate, discountAmount decimal.Decimal) error {
	if !inv.Status.AllowsItemChanges() {
		return shared.NewBadRequestError("Cannot modify a %s invoice", inv.Status)
	}
	if err := validateTerms(taxRate, discountAmount); err != nil {
		return err
	}
	inv.TaxRate = taxRate
	inv.DiscountAmount = discountAmount
	inv.Touch()
	return nil
}

// EnsureItemsMutable rejects item changes on paid or cancelled invoices
func (inv *Invoice) EnsureItemsMutable() error {
	if !inv.Status.AllowsItemChanges() {
		return shared.NewBadRequestError("Cannot modify items on a %s invoice", inv.Status)
	}
	return nil
}

// ApplyTotals recomputes the derived money fields from the given items
func (inv *Invoice) ApplyTotals(items []InvoiceItem) {
	totals := ComputeTotals(items, inv.TaxRate, inv.DiscountAmount)
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.TotalAmount = totals.TotalAmount
}

// transitionTo is the single place where invoice status changes are validated
func (inv *Invoice) transitionTo(target InvoiceStatus) error {
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewBadRequestError("Cannot change invoice %s from %s to %s", inv.InvoiceNumber, inv.Status, target)
	}
	from := inv.Status
	inv.Status = target
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, from))
	return nil
}

// Issue moves a draft invoice to issued
func (inv *Invoice) Issue() error {
	if len(inv.Items) == 0 {
		return shared.NewBadRequestError("Cannot issue invoice %s without items", inv.InvoiceNumber)
	}
	if err := inv.transitionTo(InvoiceStatusIssued); err != nil {
		return err
	}
	now := time.Now()
	inv.IssuedAt = &now
	return nil
}

// MarkPaid records payment of an issued or overdue invoice
func (inv *Invoice) MarkPaid() error {
	if err := inv.transitionTo(InvoiceStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	inv.PaidAt = &now
	return nil
}

// MarkOverdue moves an issued invoice past its due date to overdue
func (inv *Invoice) MarkOverdue(now time.Time) error {
	if inv.DueDate == nil || !now.After(*inv.DueDate) {
		return shared.NewBadRequestError("Invoice %s is not past its due date", inv.InvoiceNumber)
	}
	return inv.transitionTo(InvoiceStatusOverdue)
}

// Cancel cancels the invoice. Stock restoration for its items is done by the
// caller inside the same unit of work.
func (inv *Invoice) Cancel() error {
	if err := inv.transitionTo(InvoiceStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	inv.CancelledAt = &now
	return nil
}

// CanDelete reports whether the invoice may be soft deleted
func (inv *Invoice) CanDelete() bool {
	return inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusCancelled
}

// IsDeleted reports whether the invoice has been soft deleted
func (inv *Invoice) IsDeleted() bool {
	return inv.DeletedAt != nil
}
