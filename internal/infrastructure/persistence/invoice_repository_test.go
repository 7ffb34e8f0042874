package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/invoicing"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, tenantID uuid.UUID, number string) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(tenantID, uuid.New(), number, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_SaveKeepsStoredTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, Models()...)
	repo := NewGormInvoiceRepository(db)
	tenantID := uuid.New()

	inv := newTestInvoice(t, tenantID, "INV-2026-00001")
	require.NoError(t, repo.Save(ctx, inv))

	inv.Subtotal = decimal.NewFromInt(100)
	inv.TaxAmount = decimal.NewFromInt(10)
	inv.TotalAmount = decimal.NewFromInt(110)
	require.NoError(t, repo.UpdateTotals(ctx, inv))

	// a stale header copy must not overwrite the totals
	stale, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
	require.NoError(t, err)
	stale.Subtotal = decimal.Zero
	stale.TotalAmount = decimal.Zero
	stale.Notes = "call before pickup"
	require.NoError(t, repo.Save(ctx, stale))

	got, err := repo.FindByIDForTenant(ctx, tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "call before pickup", got.Notes)
	assert.Equal(t, "100.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "110.00", got.TotalAmount.StringFixed(2))
}

func TestGormInvoiceRepository_TenantIsolationAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, Models()...)
	repo := NewGormInvoiceRepository(db)
	tenantID := uuid.New()

	inv := newTestInvoice(t, tenantID, "INV-2026-00001")
	require.NoError(t, repo.Save(ctx, inv))

	_, err := repo.FindByIDForTenant(ctx, uuid.New(), inv.ID)
	assert.True(t, shared.IsNotFound(err))

	require.NoError(t, repo.SoftDelete(ctx, tenantID, inv.ID))

	_, err = repo.FindByIDForTenant(ctx, tenantID, inv.ID)
	assert.True(t, shared.IsNotFound(err))

	err = repo.SoftDelete(ctx, tenantID, inv.ID)
	assert.True(t, shared.IsNotFound(err))

	err = repo.UpdateTotals(ctx, inv)
	assert.True(t, shared.IsNotFound(err), "totals of a deleted invoice cannot be written")

	list, total, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int64(0), total)
}

func TestGormInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, Models()...)
	repo := NewGormInvoiceRepository(db)
	tenantID := uuid.New()
	year := time.Now().Year()

	first, err := repo.GenerateInvoiceNumber(ctx, tenantID, "INV")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), first)

	require.NoError(t, repo.Save(ctx, newTestInvoice(t, tenantID, first)))

	second, err := repo.GenerateInvoiceNumber(ctx, tenantID, "INV")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00002", year), second)

	t.Run("deleted invoices keep their number", func(t *testing.T) {
		inv := newTestInvoice(t, tenantID, second)
		require.NoError(t, repo.Save(ctx, inv))
		require.NoError(t, repo.SoftDelete(ctx, tenantID, inv.ID))

		next, err := repo.GenerateInvoiceNumber(ctx, tenantID, "INV")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-00003", year), next)
	})

	t.Run("sequences are per tenant", func(t *testing.T) {
		other, err := repo.GenerateInvoiceNumber(ctx, uuid.New(), "INV")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), other)
	})
}

func TestGormInvoiceRepository_FindOverdue(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, Models()...)
	repo := NewGormInvoiceRepository(db)
	tenantID := uuid.New()
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	save := func(number string, status invoicing.InvoiceStatus, due *time.Time) *invoicing.Invoice {
		inv := newTestInvoice(t, tenantID, number)
		inv.Status = status
		inv.DueDate = due
		require.NoError(t, repo.Save(ctx, inv))
		return inv
	}

	overdue := save("INV-1", invoicing.InvoiceStatusIssued, &past)
	save("INV-2", invoicing.InvoiceStatusIssued, &future)
	save("INV-3", invoicing.InvoiceStatusDraft, &past)
	save("INV-4", invoicing.InvoiceStatusPaid, &past)
	save("INV-5", invoicing.InvoiceStatusIssued, nil)

	found, err := repo.FindOverdue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID, found[0].ID)
}

func TestGormInvoiceItemRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, Models()...)
	invoices := NewGormInvoiceRepository(db)
	items := NewGormInvoiceItemRepository(db)
	tenantID := uuid.New()

	inv := newTestInvoice(t, tenantID, "INV-2026-00001")
	require.NoError(t, invoices.Save(ctx, inv))

	line := invoicing.LineInput{
		Description: "Brake pads",
		Quantity:    2,
		UnitPrice:   decimal.NewFromInt(40),
		Type:        invoicing.ItemTypePart,
	}
	item, err := invoicing.NewInvoiceItem(tenantID, inv.ID, line)
	require.NoError(t, err)
	require.NoError(t, items.Save(ctx, item))

	t.Run("found only through its own invoice", func(t *testing.T) {
		got, err := items.FindByIDForInvoice(ctx, tenantID, inv.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "80.00", got.Subtotal.StringFixed(2))

		_, err = items.FindByIDForInvoice(ctx, tenantID, uuid.New(), item.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("preloaded with the invoice", func(t *testing.T) {
		got, err := invoices.FindByIDWithItems(ctx, tenantID, inv.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, item.ID, got.Items[0].ID)
	})

	t.Run("delete is permanent", func(t *testing.T) {
		require.NoError(t, items.Delete(ctx, item.ID))

		remaining, err := items.FindByInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		assert.True(t, shared.IsNotFound(items.Delete(ctx, item.ID)))
	})
}
