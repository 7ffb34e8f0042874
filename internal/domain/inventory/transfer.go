package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
)

// TransferStatus represents the state of an inventory transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// IsValid checks if the status is a known TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// A pending transfer resolves exactly once, to completed or cancelled.
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	return s == TransferStatusPending && target.IsTerminal()
}

// InventoryTransfer moves a quantity of one item between two locations of the
// same company. Stock leaves the source when the transfer is created and is
// in transit, at neither location, until the transfer completes or is cancelled.
type InventoryTransfer struct {
	shared.TenantAggregateRoot
	InventoryItemID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestinationItemID *uuid.UUID     `gorm:"type:uuid"`
	FromLocationID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToLocationID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Quantity          int            `gorm:"not null"`
	Status            TransferStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes             string         `gorm:"type:text"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (InventoryTransfer) TableName() string {
	return "inventory_transfers"
}

// NewInventoryTransfer creates a pending transfer after checking the
// location-independent invariants.
func NewInventoryTransfer(tenantID, itemID, fromLocationID, toLocationID uuid.UUID, quantity int, notes string) (*InventoryTransfer, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewBadRequestError("Inventory item ID is required")
	}
	if fromLocationID == uuid.Nil || toLocationID == uuid.Nil {
		return nil, shared.NewBadRequestError("Source and destination locations are required")
	}
	if fromLocationID == toLocationID {
		return nil, shared.NewBadRequestError("Source and destination locations must be different")
	}
	if quantity <= 0 {
		return nil, shared.NewBadRequestError("Transfer quantity must be greater than 0")
	}

	return &InventoryTransfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InventoryItemID:     itemID,
		FromLocationID:      fromLocationID,
		ToLocationID:        toLocationID,
		Quantity:            quantity,
		Status:              TransferStatusPending,
		Notes:               notes,
	}, nil
}

// CheckTransition is the single place where transfer status changes are
// validated. Services call it before moving stock so a rejected transition
// leaves the ledger untouched.
func (t *InventoryTransfer) CheckTransition(target TransferStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewBadRequestError("Cannot change transfer from %s to %s: only pending transfers can be resolved", t.Status, target)
	}
	return nil
}

func (t *InventoryTransfer) transitionTo(target TransferStatus) error {
	if err := t.CheckTransition(target); err != nil {
		return err
	}
	t.Status = target
	t.Touch()
	return nil
}

// Complete marks the transfer completed. destinationItemID is the item that
// was credited at the destination, either a same-SKU item or the relocated
// original.
func (t *InventoryTransfer) Complete(destinationItemID uuid.UUID) error {
	if err := t.transitionTo(TransferStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	t.CompletedAt = &now
	t.DestinationItemID = &destinationItemID
	t.AddDomainEvent(NewTransferCompletedEvent(t))
	return nil
}

// Cancel marks the transfer cancelled. The caller re-credits the source.
func (t *InventoryTransfer) Cancel() error {
	if err := t.transitionTo(TransferStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	t.CancelledAt = &now
	t.AddDomainEvent(NewTransferCancelledEvent(t))
	return nil
}
