package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/infrastructure/persistence"
	"github.com/repairshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	repos     *persistence.Repositories
	publisher *testutil.RecordingPublisher
	inventory *appinventory.InventoryService
	transfers *appinventory.TransferService
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	repos := persistence.NewRepositories(db)
	scope := persistence.NewGormTransactionScope(db)
	publisher := testutil.NewRecordingPublisher()

	inventorySvc := appinventory.NewInventoryService(repos, scope)
	inventorySvc.SetEventPublisher(publisher)
	transferSvc := appinventory.NewTransferService(repos, scope)
	transferSvc.SetEventPublisher(publisher)

	return &inventoryFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		repos:     repos,
		publisher: publisher,
		inventory: inventorySvc,
		transfers: transferSvc,
	}
}

func (f *inventoryFixture) location(t *testing.T, name string) uuid.UUID {
	t.Helper()
	loc, err := f.inventory.CreateLocation(f.ctx, f.tenantID, appinventory.CreateLocationRequest{Name: name})
	require.NoError(t, err)
	return loc.ID
}

func (f *inventoryFixture) item(t *testing.T, locationID uuid.UUID, sku string, opening int) uuid.UUID {
	t.Helper()
	item, err := f.inventory.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
		LocationID:      locationID,
		SKU:             sku,
		Name:            sku,
		CostPrice:       decimal.NewFromInt(10),
		SellingPrice:    decimal.NewFromInt(25),
		OpeningQuantity: opening,
	})
	require.NoError(t, err)
	return item.ID
}

func (f *inventoryFixture) quantity(t *testing.T, itemID, locationID uuid.UUID) int {
	t.Helper()
	qty, err := f.repos.Quantities().GetQuantity(f.ctx, itemID, locationID)
	require.NoError(t, err)
	return qty
}

func TestInventoryService_CreateItem(t *testing.T) {
	f := newInventoryFixture(t)
	loc := f.location(t, "Main shop")

	t.Run("opening quantity is booked through the ledger", func(t *testing.T) {
		f.publisher.Reset()
		id := f.item(t, loc, "PAD-01", 12)

		got, err := f.inventory.GetItem(f.ctx, f.tenantID, id)
		require.NoError(t, err)
		assert.Equal(t, 12, got.TotalQuantity)
		require.Len(t, got.Quantities, 1)
		assert.Equal(t, loc, got.Quantities[0].LocationID)

		events := f.publisher.EventsOfType(inventory.EventTypeStockAdjusted)
		require.Len(t, events, 1)
		adjusted := events[0].(*inventory.StockAdjustedEvent)
		assert.Equal(t, 12, adjusted.Delta)
		assert.Equal(t, appinventory.ReasonOpeningStock, adjusted.Reason)
	})

	t.Run("duplicate SKU at the same location", func(t *testing.T) {
		_, err := f.inventory.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
			LocationID: loc,
			SKU:        "PAD-01",
			Name:       "Another pad",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := f.inventory.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
			LocationID: uuid.New(),
			SKU:        "PAD-02",
			Name:       "Pad",
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("other tenant cannot see the item", func(t *testing.T) {
		id := f.item(t, loc, "OIL-5W30", 1)
		_, err := f.inventory.GetItem(f.ctx, uuid.New(), id)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestInventoryService_AdjustStock(t *testing.T) {
	f := newInventoryFixture(t)
	loc := f.location(t, "Main shop")
	itemID := f.item(t, loc, "FLT-01", 3)

	t.Run("applies a positive correction", func(t *testing.T) {
		resp, err := f.inventory.AdjustStock(f.ctx, f.tenantID, itemID, appinventory.AdjustStockRequest{LocationID: loc, Delta: 4})
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
	})

	t.Run("never drives stock below zero", func(t *testing.T) {
		_, err := f.inventory.AdjustStock(f.ctx, f.tenantID, itemID, appinventory.AdjustStockRequest{LocationID: loc, Delta: -8})
		require.Error(t, err)
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Equal(t, 7, f.quantity(t, itemID, loc))
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		_, err := f.inventory.AdjustStock(f.ctx, f.tenantID, itemID, appinventory.AdjustStockRequest{LocationID: loc})
		assert.ErrorIs(t, err, shared.ErrBadRequest)
	})

	t.Run("rejects items that do not track quantity", func(t *testing.T) {
		untracked := false
		item, err := f.inventory.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
			LocationID:    loc,
			SKU:           "LABOUR",
			Name:          "Labour hour",
			TrackQuantity: &untracked,
		})
		require.NoError(t, err)

		_, err = f.inventory.AdjustStock(f.ctx, f.tenantID, item.ID, appinventory.AdjustStockRequest{LocationID: loc, Delta: 1})
		assert.ErrorIs(t, err, shared.ErrBadRequest)
	})
}

func TestInventoryService_DeleteItem(t *testing.T) {
	f := newInventoryFixture(t)
	loc := f.location(t, "Main shop")
	itemID := f.item(t, loc, "BELT-01", 2)

	require.NoError(t, f.inventory.DeleteItem(f.ctx, f.tenantID, itemID))

	_, err := f.inventory.GetItem(f.ctx, f.tenantID, itemID)
	assert.True(t, shared.IsNotFound(err))

	items, total, err := f.inventory.ListItems(f.ctx, f.tenantID, appinventory.ListFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestQuantityLedger_AdjustQuantity(t *testing.T) {
	f := newInventoryFixture(t)
	loc := f.location(t, "Main shop")
	other := f.location(t, "Back room")
	itemID := f.item(t, loc, "PAD-01", 5)
	ledger := appinventory.NewQuantityLedger()

	t.Run("returns the new quantity", func(t *testing.T) {
		qty, err := ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, itemID, loc, -2)
		require.NoError(t, err)
		assert.Equal(t, 3, qty)
	})

	t.Run("creates the row for a new location", func(t *testing.T) {
		qty, err := ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, itemID, other, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, qty)
	})

	t.Run("insufficient stock leaves the row alone", func(t *testing.T) {
		_, err := ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, itemID, loc, -4)
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Equal(t, 3, f.quantity(t, itemID, loc))
	})

	t.Run("untracked items report zero", func(t *testing.T) {
		untracked := false
		item, err := f.inventory.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
			LocationID: loc, SKU: "LABOUR", Name: "Labour", TrackQuantity: &untracked,
		})
		require.NoError(t, err)
		qty, err := ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, item.ID, loc, -3)
		require.NoError(t, err)
		assert.Zero(t, qty)
	})

	t.Run("another tenant's item is not found", func(t *testing.T) {
		_, err := ledger.AdjustQuantity(f.ctx, f.repos, uuid.New(), itemID, loc, 1)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("deleted items accept returns but not deductions", func(t *testing.T) {
		require.NoError(t, f.inventory.DeleteItem(f.ctx, f.tenantID, itemID))
		qty, err := ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, itemID, loc, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, qty)
		_, err = ledger.AdjustQuantity(f.ctx, f.repos, f.tenantID, itemID, loc, -1)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
	})
}
