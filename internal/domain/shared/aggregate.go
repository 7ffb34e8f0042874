package shared

import "github.com/google/uuid"

// TenantAggregateRoot buffers the events an aggregate raises while a unit of
// work runs. The application layer drains the buffer after commit.
// There is no version column; concurrent writers are last-write-wins.
type TenantAggregateRoot struct {
	TenantEntity
	pending []DomainEvent `gorm:"-"`
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{TenantEntity: NewTenantEntity(tenantID)}
}

func (a *TenantAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the buffered events in the order they were raised
func (a *TenantAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

func (a *TenantAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}
