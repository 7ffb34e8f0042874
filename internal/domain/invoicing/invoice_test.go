package invoicing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-2026-00001", decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	return inv
}

func partLine(qty int, price string) LineInput {
	id := uuid.New()
	return LineInput{
		InventoryItemID: &id,
		Description:     "Brake pad",
		Quantity:        qty,
		UnitPrice:       decimal.RequireFromString(price),
		DiscountPercent: decimal.Zero,
		Type:            ItemTypePart,
	}
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     InvoiceStatus
		to       InvoiceStatus
		canTrans bool
	}{
		{InvoiceStatusDraft, InvoiceStatusIssued, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusIssued, InvoiceStatusPaid, true},
		{InvoiceStatusIssued, InvoiceStatusOverdue, true},
		{InvoiceStatusIssued, InvoiceStatusCancelled, true},
		{InvoiceStatusIssued, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusCancelled, true},
		{InvoiceStatusOverdue, InvoiceStatusIssued, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoiceStatus_AllowsItemChanges(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.AllowsItemChanges())
	assert.True(t, InvoiceStatusIssued.AllowsItemChanges())
	assert.True(t, InvoiceStatusOverdue.AllowsItemChanges())
	assert.False(t, InvoiceStatusPaid.AllowsItemChanges())
	assert.False(t, InvoiceStatusCancelled.AllowsItemChanges())
}

func TestNewInvoice(t *testing.T) {
	t.Run("draft with zero totals", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Subtotal.IsZero())
		assert.True(t, inv.TotalAmount.IsZero())
	})

	t.Run("invalid tax rate", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", decimal.NewFromInt(101), decimal.Zero)
		assert.True(t, shared.IsBadRequest(err))
	})

	t.Run("negative discount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", decimal.Zero, decimal.NewFromInt(-1))
		assert.True(t, shared.IsBadRequest(err))
	})
}

func TestInvoice_ApplyTotals(t *testing.T) {
	inv := newTestInvoice(t)
	inv.DiscountAmount = decimal.NewFromInt(5)

	a, err := NewInvoiceItem(inv.TenantID, inv.ID, partLine(2, "25.00"))
	require.NoError(t, err)
	b, err := NewInvoiceItem(inv.TenantID, inv.ID, LineInput{
		Description:     "Labour",
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(100),
		DiscountPercent: decimal.NewFromInt(10),
		Type:            ItemTypeService,
	})
	require.NoError(t, err)

	inv.ApplyTotals([]InvoiceItem{*a, *b})

	// 50 + 90 = 140, tax 14, total 140 + 14 - 5
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(140)), inv.Subtotal.String())
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(14)), inv.TaxAmount.String())
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(149)), inv.TotalAmount.String())

	// applying twice changes nothing
	inv.ApplyTotals([]InvoiceItem{*a, *b})
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(149)))
}

func TestInvoice_Lifecycle(t *testing.T) {
	t.Run("issue requires items", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.True(t, shared.IsBadRequest(inv.Issue()))
	})

	t.Run("issue then pay", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := NewInvoiceItem(inv.TenantID, inv.ID, partLine(1, "10"))
		require.NoError(t, err)
		inv.Items = append(inv.Items, *item)

		require.NoError(t, inv.Issue())
		assert.NotNil(t, inv.IssuedAt)
		require.NoError(t, inv.MarkPaid())
		assert.NotNil(t, inv.PaidAt)
		assert.Error(t, inv.EnsureItemsMutable())
		assert.False(t, inv.CanDelete())
		assert.Len(t, inv.GetDomainEvents(), 2)
	})

	t.Run("overdue needs past due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := NewInvoiceItem(inv.TenantID, inv.ID, partLine(1, "10"))
		require.NoError(t, err)
		inv.Items = append(inv.Items, *item)
		require.NoError(t, inv.Issue())

		now := time.Now()
		assert.Error(t, inv.MarkOverdue(now))

		due := now.Add(-time.Hour)
		inv.DueDate = &due
		require.NoError(t, inv.MarkOverdue(now))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})

	t.Run("cancel draft", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Cancel())
		assert.True(t, inv.CanDelete())
		assert.Error(t, inv.Cancel())
		assert.True(t, shared.IsBadRequest(inv.SetTerms(decimal.Zero, decimal.Zero)))
	})
}
