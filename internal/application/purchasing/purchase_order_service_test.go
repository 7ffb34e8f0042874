package purchasing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	purchasingapp "github.com/repairshop/backend/internal/application/purchasing"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/purchasing"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/infrastructure/persistence"
	"github.com/repairshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type purchasingFixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	location  uuid.UUID
	repos     *persistence.Repositories
	publisher *testutil.RecordingPublisher
	logs      *observer.ObservedLogs
	stock     *appinventory.InventoryService
	orders    *purchasingapp.PurchaseOrderService
}

func newPurchasingFixture(t *testing.T) *purchasingFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	repos := persistence.NewRepositories(db)
	scope := persistence.NewGormTransactionScope(db)
	publisher := testutil.NewRecordingPublisher()
	core, logs := observer.New(zap.InfoLevel)

	orders := purchasingapp.NewPurchaseOrderService(repos, scope)
	orders.SetEventPublisher(publisher)
	orders.SetLogger(zap.New(core))

	f := &purchasingFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		repos:     repos,
		publisher: publisher,
		logs:      logs,
		stock:     appinventory.NewInventoryService(repos, scope),
		orders:    orders,
	}
	loc, err := f.stock.CreateLocation(f.ctx, f.tenantID, appinventory.CreateLocationRequest{Name: "Main shop"})
	require.NoError(t, err)
	f.location = loc.ID
	return f
}

func (f *purchasingFixture) stockItem(t *testing.T, sku string, qty int) uuid.UUID {
	t.Helper()
	item, err := f.stock.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
		LocationID:      f.location,
		SKU:             sku,
		Name:            sku,
		OpeningQuantity: qty,
	})
	require.NoError(t, err)
	return item.ID
}

func (f *purchasingFixture) quantity(t *testing.T, itemID uuid.UUID) int {
	t.Helper()
	qty, err := f.repos.Quantities().GetQuantity(f.ctx, itemID, f.location)
	require.NoError(t, err)
	return qty
}

// placedOrder creates and orders a purchase order with one line per item
func (f *purchasingFixture) placedOrder(t *testing.T, lines map[uuid.UUID]int) *purchasingapp.PurchaseOrderResponse {
	t.Helper()
	req := purchasingapp.CreatePurchaseOrderRequest{LocationID: f.location, SupplierName: "Parts Direct"}
	for itemID, qty := range lines {
		req.Items = append(req.Items, purchasingapp.CreatePurchaseOrderItemRequest{
			InventoryItemID: itemID,
			QuantityOrdered: qty,
			UnitCost:        decimal.NewFromInt(12),
		})
	}
	created, err := f.orders.Create(f.ctx, f.tenantID, req)
	require.NoError(t, err)
	ordered, err := f.orders.Order(f.ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	return ordered
}

func TestPurchaseOrderService_ReceivePartialQuantity(t *testing.T) {
	f := newPurchasingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 4)
	order := f.placedOrder(t, map[uuid.UUID]int{itemID: 10})
	require.Len(t, order.Items, 1)

	received, err := f.orders.Receive(f.ctx, f.tenantID, order.ID, purchasingapp.ReceivePurchaseOrderRequest{
		Items: []purchasingapp.ReceiveItemRequest{{ItemID: order.Items[0].ID, QuantityReceived: 7}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(purchasing.PurchaseOrderStatusReceived), received.Status)
	assert.NotNil(t, received.ReceivedDate)
	assert.Equal(t, 7, received.Items[0].QuantityReceived)
	assert.True(t, decimal.NewFromInt(84).Equal(received.Items[0].Subtotal))
	assert.Equal(t, 11, f.quantity(t, itemID))

	reloaded, err := f.orders.GetByID(f.ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Items[0].QuantityReceived)

	assert.Len(t, f.publisher.EventsOfType(purchasing.EventTypePurchaseOrderReceived), 1)
	adjusted := f.publisher.EventsOfType(inventory.EventTypeStockAdjusted)
	require.Len(t, adjusted, 1)
	assert.Equal(t, appinventory.ReasonPurchaseReceipt, adjusted[0].(*inventory.StockAdjustedEvent).Reason)
	receivedLogs := f.logs.FilterMessage("purchase order received").All()
	require.Len(t, receivedLogs, 1)
	assert.EqualValues(t, 7, receivedLogs[0].ContextMap()["units_received"])

	t.Run("a received order is final", func(t *testing.T) {
		_, err := f.orders.Receive(f.ctx, f.tenantID, order.ID, purchasingapp.ReceivePurchaseOrderRequest{
			Items: []purchasingapp.ReceiveItemRequest{{ItemID: order.Items[0].ID, QuantityReceived: 3}},
		})
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		_, err = f.orders.Cancel(f.ctx, f.tenantID, order.ID)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, 11, f.quantity(t, itemID))
	})
}

func TestPurchaseOrderService_ReceiveIsAllOrNothing(t *testing.T) {
	f := newPurchasingFixture(t)
	pads := f.stockItem(t, "PAD-01", 0)
	discs := f.stockItem(t, "DISC-01", 0)
	order := f.placedOrder(t, map[uuid.UUID]int{pads: 4, discs: 2})
	require.Len(t, order.Items, 2)

	var padLine, discLine uuid.UUID
	for _, line := range order.Items {
		if line.InventoryItemID == pads {
			padLine = line.ID
		} else {
			discLine = line.ID
		}
	}

	tests := []struct {
		name     string
		items    []purchasingapp.ReceiveItemRequest
		message  string
		notFound bool
	}{
		{
			name: "one line over the ordered quantity",
			items: []purchasingapp.ReceiveItemRequest{
				{ItemID: padLine, QuantityReceived: 4},
				{ItemID: discLine, QuantityReceived: 3},
			},
			message: "Quantity received (3) cannot exceed quantity ordered (2)",
		},
		{
			name: "unknown line",
			items: []purchasingapp.ReceiveItemRequest{
				{ItemID: padLine, QuantityReceived: 4},
				{ItemID: uuid.New(), QuantityReceived: 1},
			},
			notFound: true,
		},
		{
			name: "negative quantity",
			items: []purchasingapp.ReceiveItemRequest{
				{ItemID: padLine, QuantityReceived: -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Receive(f.ctx, f.tenantID, order.ID, purchasingapp.ReceivePurchaseOrderRequest{Items: tt.items})
			require.Error(t, err)
			if tt.notFound {
				assert.True(t, shared.IsNotFound(err))
			} else {
				assert.ErrorIs(t, err, shared.ErrBadRequest)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}

			assert.Zero(t, f.quantity(t, pads))
			assert.Zero(t, f.quantity(t, discs))
			current, err := f.orders.GetByID(f.ctx, f.tenantID, order.ID)
			require.NoError(t, err)
			assert.Equal(t, string(purchasing.PurchaseOrderStatusOrdered), current.Status)
			for _, line := range current.Items {
				assert.Zero(t, line.QuantityReceived)
			}
		})
	}
	assert.Empty(t, f.publisher.Events())
}

func TestPurchaseOrderService_ReceiveRequiresOrderedStatus(t *testing.T) {
	f := newPurchasingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 0)

	draft, err := f.orders.Create(f.ctx, f.tenantID, purchasingapp.CreatePurchaseOrderRequest{
		LocationID: f.location,
		Items:      []purchasingapp.CreatePurchaseOrderItemRequest{{InventoryItemID: itemID, QuantityOrdered: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(purchasing.PurchaseOrderStatusDraft), draft.Status)
	assert.Regexp(t, `^PO-\d{4}-\d{5}$`, draft.PONumber)

	_, err = f.orders.Receive(f.ctx, f.tenantID, draft.ID, purchasingapp.ReceivePurchaseOrderRequest{
		Items: []purchasingapp.ReceiveItemRequest{{ItemID: draft.Items[0].ID, QuantityReceived: 2}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "it must be ordered")

	cancelled, err := f.orders.Cancel(f.ctx, f.tenantID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(purchasing.PurchaseOrderStatusCancelled), cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = f.orders.Order(f.ctx, f.tenantID, draft.ID)
	assert.ErrorIs(t, err, shared.ErrBadRequest)
	assert.Zero(t, f.quantity(t, itemID))
}

func TestPurchaseOrderService_CreateValidation(t *testing.T) {
	f := newPurchasingFixture(t)

	_, err := f.orders.Create(f.ctx, f.tenantID, purchasingapp.CreatePurchaseOrderRequest{
		LocationID: f.location,
		Items:      []purchasingapp.CreatePurchaseOrderItemRequest{{InventoryItemID: uuid.New(), QuantityOrdered: 1}},
	})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.orders.Create(f.ctx, f.tenantID, purchasingapp.CreatePurchaseOrderRequest{LocationID: uuid.New()})
	assert.True(t, shared.IsNotFound(err))

	orders, total, err := f.orders.List(f.ctx, f.tenantID, appinventory.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, total)
}
