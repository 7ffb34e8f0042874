package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate inside a unit of work and
// published once that unit of work has committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent is embedded by every concrete event. The JSON shape is what
// handlers and log lines see.
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"event_id"`
	Type       string    `json:"event_type"`
	RecordedAt time.Time `json:"occurred_at"`
	Aggregate  uuid.UUID `json:"aggregate_id"`
	Kind       string    `json:"aggregate_type"`
	Tenant     uuid.UUID `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a fresh event ID and the current UTC time
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		RecordedAt: time.Now().UTC(),
		Aggregate:  aggregateID,
		Kind:       aggregateType,
		Tenant:     tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.RecordedAt }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.Kind }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Tenant }
