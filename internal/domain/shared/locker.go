package shared

import (
	"context"

	"github.com/google/uuid"
)

// NumberLocker serializes document number generation per tenant. It is best
// effort: Acquire always returns a release function, and callers still rely on
// the unique index plus retries when no lock could be taken.
type NumberLocker interface {
	Acquire(ctx context.Context, key string) (release func())
}

// NoopNumberLocker is used when no distributed lock backend is configured
type NoopNumberLocker struct{}

// Acquire returns immediately
func (NoopNumberLocker) Acquire(context.Context, string) func() {
	return func() {}
}

// NumberLockKey returns the lock key for a tenant's documents of one kind
func NumberLockKey(kind string, tenantID uuid.UUID) string {
	return "number:" + kind + ":" + tenantID.String()
}
