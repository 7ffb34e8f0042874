package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "InventoryItem", uuid.New(), uuid.New())}
}

type panickingHandler struct{}

func (panickingHandler) EventTypes() []string { return []string{"StockAdjusted"} }
func (panickingHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("boom")
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	stock := testutil.NewMockEventHandler("StockAdjusted")
	invoices := testutil.NewMockEventHandler("InvoiceStatusChanged")
	all := testutil.NewMockEventHandler()

	bus.Subscribe(stock)
	bus.Subscribe(invoices)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(ctx, newTestEvent("StockAdjusted"), newTestEvent("TransferCompleted")))

	assert.Equal(t, 1, stock.HandledCount())
	assert.Equal(t, 0, invoices.HandledCount())
	assert.Equal(t, 2, all.HandledCount())
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := testutil.NewMockEventHandler("StockAdjusted")
	failing.SetError(errors.New("notifier down"))
	healthy := testutil.NewMockEventHandler("StockAdjusted")

	bus.Subscribe(failing)
	bus.Subscribe(panickingHandler{})
	bus.Subscribe(healthy)

	err := bus.Publish(ctx, newTestEvent("StockAdjusted"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notifier down")
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, 1, healthy.HandledCount())
}

func TestInMemoryEventBus_UnsubscribeAndStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	h := testutil.NewMockEventHandler("StockAdjusted")

	bus.Subscribe(h)
	bus.Subscribe(h)
	require.NoError(t, bus.Publish(ctx, newTestEvent("StockAdjusted")))
	assert.Equal(t, 1, h.HandledCount(), "duplicate subscription delivers once")

	bus.Unsubscribe(h)
	require.NoError(t, bus.Publish(ctx, newTestEvent("StockAdjusted")))
	assert.Equal(t, 1, h.HandledCount())

	require.NoError(t, bus.Stop(ctx))
	assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("StockAdjusted")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newTestEvent("StockAdjusted")))
}
