package invoicing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinventory "github.com/repairshop/backend/internal/application/inventory"
	invoicingapp "github.com/repairshop/backend/internal/application/invoicing"
	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/infrastructure/persistence"
	"github.com/repairshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoicingFixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	location  uuid.UUID
	repos     *persistence.Repositories
	publisher *testutil.RecordingPublisher
	stock     *appinventory.InventoryService
	invoices  *invoicingapp.InvoiceService
	items     *invoicingapp.InvoiceItemService
}

func newInvoicingFixture(t *testing.T) *invoicingFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	repos := persistence.NewRepositories(db)
	scope := persistence.NewGormTransactionScope(db)
	publisher := testutil.NewRecordingPublisher()

	stock := appinventory.NewInventoryService(repos, scope)
	invoices := invoicingapp.NewInvoiceService(repos, scope, invoicingapp.DefaultServiceConfig())
	invoices.SetEventPublisher(publisher)
	items := invoicingapp.NewInvoiceItemService(scope)
	items.SetEventPublisher(publisher)

	f := &invoicingFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		repos:     repos,
		publisher: publisher,
		stock:     stock,
		invoices:  invoices,
		items:     items,
	}
	loc, err := stock.CreateLocation(f.ctx, f.tenantID, appinventory.CreateLocationRequest{Name: "Main shop"})
	require.NoError(t, err)
	f.location = loc.ID
	return f
}

func (f *invoicingFixture) stockItem(t *testing.T, sku string, qty int, track bool) uuid.UUID {
	t.Helper()
	item, err := f.stock.CreateItem(f.ctx, f.tenantID, appinventory.CreateInventoryItemRequest{
		LocationID:      f.location,
		SKU:             sku,
		Name:            sku,
		SellingPrice:    decimal.NewFromInt(50),
		TrackQuantity:   &track,
		OpeningQuantity: qty,
	})
	require.NoError(t, err)
	return item.ID
}

func (f *invoicingFixture) quantity(t *testing.T, itemID uuid.UUID) int {
	t.Helper()
	qty, err := f.repos.Quantities().GetQuantity(f.ctx, itemID, f.location)
	require.NoError(t, err)
	return qty
}

func (f *invoicingFixture) draft(t *testing.T) uuid.UUID {
	t.Helper()
	inv, err := f.invoices.Create(f.ctx, f.tenantID, invoicingapp.CreateInvoiceRequest{LocationID: f.location})
	require.NoError(t, err)
	return inv.ID
}

func (f *invoicingFixture) addLine(t *testing.T, invoiceID uuid.UUID, req invoicingapp.CreateInvoiceItemRequest) *invoicingapp.InvoiceItemResult {
	t.Helper()
	res, err := f.items.Create(f.ctx, f.tenantID, invoiceID, req)
	require.NoError(t, err)
	return res
}

// assertTotalsMatchItems checks that the stored invoice totals equal a fresh
// sum over its current items
func (f *invoicingFixture) assertTotalsMatchItems(t *testing.T, invoiceID uuid.UUID) {
	t.Helper()
	inv, err := f.invoices.GetByID(f.ctx, f.tenantID, invoiceID)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(inv.Subtotal), "subtotal %s, items sum %s", inv.Subtotal, sum)
	assert.True(t, inv.TotalAmount.Equal(inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount)),
		"total %s != %s + %s - %s", inv.TotalAmount, inv.Subtotal, inv.TaxAmount, inv.DiscountAmount)
}

func partLine(itemID uuid.UUID, qty int, price int64) invoicingapp.CreateInvoiceItemRequest {
	return invoicingapp.CreateInvoiceItemRequest{
		InventoryItemID: &itemID,
		Description:     "Part",
		Quantity:        qty,
		UnitPrice:       decimal.NewFromInt(price),
		Type:            "part",
	}
}

func intPtr(v int) *int { return &v }

func invoicingFilter() appinventory.ListFilter {
	return appinventory.ListFilter{PageSize: 100}
}

func TestInvoiceItemService_CreateDeductsStock(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 100, true)
	invoiceID := f.draft(t)

	res := f.addLine(t, invoiceID, partLine(itemID, 5, 50))

	assert.Equal(t, 95, f.quantity(t, itemID))
	assert.True(t, decimal.NewFromInt(250).Equal(res.Totals.Subtotal))
	assert.True(t, decimal.NewFromInt(250).Equal(res.Item.Subtotal))
	f.assertTotalsMatchItems(t, invoiceID)

	events := f.publisher.EventsOfType(inventory.EventTypeStockAdjusted)
	require.Len(t, events, 1)
	adjusted := events[0].(*inventory.StockAdjustedEvent)
	assert.Equal(t, -5, adjusted.Delta)
	assert.Equal(t, 95, adjusted.Quantity)
	assert.Equal(t, appinventory.ReasonInvoiceItem, adjusted.Reason)
}

func TestInvoiceItemService_UpdateSameItemAppliesDifference(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 100, true)
	invoiceID := f.draft(t)
	line := f.addLine(t, invoiceID, partLine(itemID, 5, 50))

	res, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{Quantity: intPtr(8)})
	require.NoError(t, err)

	assert.Equal(t, 92, f.quantity(t, itemID))
	assert.True(t, decimal.NewFromInt(400).Equal(res.Totals.Subtotal))
	f.assertTotalsMatchItems(t, invoiceID)

	t.Run("lowering the quantity returns the difference", func(t *testing.T) {
		_, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{Quantity: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 98, f.quantity(t, itemID))
		f.assertTotalsMatchItems(t, invoiceID)
	})
}

func TestInvoiceItemService_UpdateSwappedItemMovesBothSides(t *testing.T) {
	f := newInvoicingFixture(t)
	itemA := f.stockItem(t, "PAD-A", 98, true)
	itemB := f.stockItem(t, "PAD-B", 50, true)
	invoiceID := f.draft(t)
	line := f.addLine(t, invoiceID, partLine(itemA, 3, 40))
	require.Equal(t, 95, f.quantity(t, itemA))

	res, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{InventoryItemID: &itemB})
	require.NoError(t, err)

	assert.Equal(t, 98, f.quantity(t, itemA), "old item gets its full quantity back")
	assert.Equal(t, 47, f.quantity(t, itemB))
	require.NotNil(t, res.Item.InventoryItemID)
	assert.Equal(t, itemB, *res.Item.InventoryItemID)
	f.assertTotalsMatchItems(t, invoiceID)
}

func TestInvoiceItemService_SwapAcrossStockBacking(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 10, true)
	invoiceID := f.draft(t)
	line := f.addLine(t, invoiceID, partLine(itemID, 4, 20))
	require.Equal(t, 6, f.quantity(t, itemID))

	service := "service"
	_, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{Type: &service})
	require.NoError(t, err)
	assert.Equal(t, 10, f.quantity(t, itemID), "switching to a service line returns the stock")

	part := "part"
	_, err = f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{Type: &part, Quantity: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 3, f.quantity(t, itemID))

	_, err = f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{ClearInventoryItem: true})
	require.NoError(t, err)
	assert.Equal(t, 10, f.quantity(t, itemID), "detaching the inventory item returns the stock")
	f.assertTotalsMatchItems(t, invoiceID)
}

func TestInvoiceItemService_NonStockLinesNeverTouchTheLedger(t *testing.T) {
	f := newInvoicingFixture(t)
	tracked := f.stockItem(t, "PAD-01", 10, true)
	untracked := f.stockItem(t, "SHOP-SUPPLIES", 0, false)
	invoiceID := f.draft(t)

	tests := []struct {
		name string
		req  invoicingapp.CreateInvoiceItemRequest
	}{
		{
			name: "service line against a tracked item",
			req: invoicingapp.CreateInvoiceItemRequest{
				InventoryItemID: &tracked, Description: "Fit pads", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Type: "service",
			},
		},
		{
			name: "other line against a tracked item",
			req: invoicingapp.CreateInvoiceItemRequest{
				InventoryItemID: &tracked, Description: "Disposal fee", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Type: "other",
			},
		},
		{
			name: "part line without an inventory item",
			req: invoicingapp.CreateInvoiceItemRequest{
				Description: "Customer supplied part", Quantity: 1, UnitPrice: decimal.Zero, Type: "part",
			},
		},
		{
			name: "part line against an untracked item",
			req:  partLine(untracked, 3, 2),
		},
	}

	f.publisher.Reset()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.addLine(t, invoiceID, tt.req)
			assert.Equal(t, 10, f.quantity(t, tracked))
		})
	}
	assert.Empty(t, f.publisher.EventsOfType(inventory.EventTypeStockAdjusted))
	f.assertTotalsMatchItems(t, invoiceID)
}

func TestInvoiceItemService_CreateThenDeleteRestoresStock(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 100, true)
	invoiceID := f.draft(t)

	line := f.addLine(t, invoiceID, partLine(itemID, 5, 50))
	require.Equal(t, 95, f.quantity(t, itemID))

	res, err := f.items.Delete(f.ctx, f.tenantID, invoiceID, line.Item.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Item)
	assert.True(t, res.Totals.Subtotal.IsZero())
	assert.Equal(t, 100, f.quantity(t, itemID))
	f.assertTotalsMatchItems(t, invoiceID)
}

func TestInvoiceItemService_InsufficientStockRollsBack(t *testing.T) {
	f := newInvoicingFixture(t)
	itemA := f.stockItem(t, "PAD-A", 10, true)
	itemB := f.stockItem(t, "PAD-B", 2, true)
	invoiceID := f.draft(t)
	line := f.addLine(t, invoiceID, partLine(itemA, 4, 10))

	t.Run("create", func(t *testing.T) {
		_, err := f.items.Create(f.ctx, f.tenantID, invoiceID, partLine(itemB, 3, 10))
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Equal(t, 2, f.quantity(t, itemB))
	})

	t.Run("swap keeps the old deduction", func(t *testing.T) {
		_, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{InventoryItemID: &itemB})
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Equal(t, 6, f.quantity(t, itemA))
		assert.Equal(t, 2, f.quantity(t, itemB))
	})

	inv, err := f.invoices.GetByID(f.ctx, f.tenantID, invoiceID)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(inv.Subtotal))
}

func TestInvoiceItemService_RejectsChangesOnClosedInvoices(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 10, true)
	invoiceID := f.draft(t)
	line := f.addLine(t, invoiceID, partLine(itemID, 1, 10))

	_, err := f.invoices.Issue(f.ctx, f.tenantID, invoiceID)
	require.NoError(t, err)
	_, err = f.invoices.MarkPaid(f.ctx, f.tenantID, invoiceID)
	require.NoError(t, err)

	_, err = f.items.Create(f.ctx, f.tenantID, invoiceID, partLine(itemID, 1, 10))
	assert.ErrorIs(t, err, shared.ErrBadRequest)
	_, err = f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{Quantity: intPtr(3)})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
	_, err = f.items.Delete(f.ctx, f.tenantID, invoiceID, line.Item.ID)
	assert.ErrorIs(t, err, shared.ErrBadRequest)

	assert.Equal(t, 9, f.quantity(t, itemID))
}

func TestInvoiceItemService_NotFound(t *testing.T) {
	f := newInvoicingFixture(t)
	invoiceID := f.draft(t)

	_, err := f.items.Create(f.ctx, f.tenantID, uuid.New(), invoicingapp.CreateInvoiceItemRequest{Description: "Labour", Quantity: 1, Type: "service"})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.items.Update(f.ctx, f.tenantID, invoiceID, uuid.New(), invoicingapp.UpdateInvoiceItemRequest{Quantity: intPtr(1)})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.items.Delete(f.ctx, uuid.New(), invoiceID, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestInvoiceItemService_RejectsInvalidInventoryReferenceOnAnyLineType(t *testing.T) {
	f := newInvoicingFixture(t)
	invoiceID := f.draft(t)

	otherTenant := uuid.New()
	otherLoc, err := f.stock.CreateLocation(f.ctx, otherTenant, appinventory.CreateLocationRequest{Name: "Other shop"})
	require.NoError(t, err)
	foreign, err := f.stock.CreateItem(f.ctx, otherTenant, appinventory.CreateInventoryItemRequest{
		LocationID:      otherLoc.ID,
		SKU:             "PAD-01",
		Name:            "Pad",
		OpeningQuantity: 5,
	})
	require.NoError(t, err)

	refs := map[string]uuid.UUID{
		"unknown item":            uuid.New(),
		"item of another company": foreign.ID,
	}
	for name, ref := range refs {
		for _, lineType := range []string{"service", "other", "part"} {
			t.Run(name+"/"+lineType, func(t *testing.T) {
				id := ref
				_, err := f.items.Create(f.ctx, f.tenantID, invoiceID, invoicingapp.CreateInvoiceItemRequest{
					InventoryItemID: &id,
					Description:     "Fitting",
					Quantity:        1,
					UnitPrice:       decimal.NewFromInt(40),
					Type:            lineType,
				})
				assert.True(t, shared.IsNotFound(err), "got %v", err)
			})
		}
	}

	t.Run("pointing an existing service line at a bad item", func(t *testing.T) {
		line := f.addLine(t, invoiceID, invoicingapp.CreateInvoiceItemRequest{
			Description: "Labour", Quantity: 1, UnitPrice: decimal.NewFromInt(60), Type: "service",
		})
		ref := foreign.ID
		_, err := f.items.Update(f.ctx, f.tenantID, invoiceID, line.Item.ID, invoicingapp.UpdateInvoiceItemRequest{InventoryItemID: &ref})
		assert.True(t, shared.IsNotFound(err), "got %v", err)

		inv, err := f.invoices.GetByID(f.ctx, f.tenantID, invoiceID)
		require.NoError(t, err)
		require.Len(t, inv.Items, 1)
		assert.Nil(t, inv.Items[0].InventoryItemID)
	})

	qty, err := f.repos.Quantities().GetQuantity(f.ctx, foreign.ID, otherLoc.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, qty, "another company's stock is never touched")
}

func TestInvoiceItemService_ServiceLineMayReferenceOwnItem(t *testing.T) {
	f := newInvoicingFixture(t)
	itemID := f.stockItem(t, "PAD-01", 10, true)
	invoiceID := f.draft(t)

	res := f.addLine(t, invoiceID, invoicingapp.CreateInvoiceItemRequest{
		InventoryItemID: &itemID, Description: "Pad fitting", Quantity: 2, UnitPrice: decimal.NewFromInt(30), Type: "service",
	})
	require.NotNil(t, res.Item.InventoryItemID)
	assert.Equal(t, itemID, *res.Item.InventoryItemID)
	assert.Equal(t, 10, f.quantity(t, itemID))
}
