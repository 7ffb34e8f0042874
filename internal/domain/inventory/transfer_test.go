package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     TransferStatus
		to       TransferStatus
		canTrans bool
	}{
		{TransferStatusPending, TransferStatusCompleted, true},
		{TransferStatusPending, TransferStatusCancelled, true},
		{TransferStatusPending, TransferStatusPending, false},
		{TransferStatusCompleted, TransferStatusCancelled, false},
		{TransferStatusCompleted, TransferStatusPending, false},
		{TransferStatusCancelled, TransferStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewInventoryTransfer(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	from := uuid.New()
	to := uuid.New()

	t.Run("creates pending transfer", func(t *testing.T) {
		tr, err := NewInventoryTransfer(tenantID, itemID, from, to, 5, "restock")
		require.NoError(t, err)
		assert.Equal(t, TransferStatusPending, tr.Status)
		assert.Equal(t, 5, tr.Quantity)
		assert.Equal(t, tenantID, tr.TenantID)
	})

	t.Run("same locations", func(t *testing.T) {
		_, err := NewInventoryTransfer(tenantID, itemID, from, from, 5, "")
		require.Error(t, err)
		assert.True(t, shared.IsBadRequest(err))
		assert.Equal(t, "Source and destination locations must be different", err.Error())
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := NewInventoryTransfer(tenantID, itemID, from, to, 0, "")
		require.Error(t, err)
		assert.Equal(t, "Transfer quantity must be greater than 0", err.Error())

		_, err = NewInventoryTransfer(tenantID, itemID, from, to, -3, "")
		assert.True(t, shared.IsBadRequest(err))
	})
}

func TestInventoryTransfer_Resolve(t *testing.T) {
	newTransfer := func(t *testing.T) *InventoryTransfer {
		tr, err := NewInventoryTransfer(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 2, "")
		require.NoError(t, err)
		return tr
	}

	t.Run("complete", func(t *testing.T) {
		tr := newTransfer(t)
		dest := uuid.New()
		require.NoError(t, tr.Complete(dest))
		assert.Equal(t, TransferStatusCompleted, tr.Status)
		assert.Equal(t, dest, *tr.DestinationItemID)
		assert.NotNil(t, tr.CompletedAt)
		require.Len(t, tr.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTransferCompleted, tr.GetDomainEvents()[0].EventType())

		assert.True(t, shared.IsBadRequest(tr.Complete(dest)))
		assert.True(t, shared.IsBadRequest(tr.Cancel()))
	})

	t.Run("cancel", func(t *testing.T) {
		tr := newTransfer(t)
		require.NoError(t, tr.Cancel())
		assert.Equal(t, TransferStatusCancelled, tr.Status)
		assert.NotNil(t, tr.CancelledAt)
		assert.True(t, tr.Status.IsTerminal())

		assert.True(t, shared.IsBadRequest(tr.Complete(uuid.New())))
	})
}

func TestInventoryTransfer_CheckTransition(t *testing.T) {
	tr, err := NewInventoryTransfer(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 3, "")
	require.NoError(t, err)
	assert.NoError(t, tr.CheckTransition(TransferStatusCompleted))
	assert.NoError(t, tr.CheckTransition(TransferStatusCancelled))
	assert.Equal(t, TransferStatusPending, tr.Status, "checking never changes the status")

	require.NoError(t, tr.Cancel())
	err = tr.CheckTransition(TransferStatusCompleted)
	assert.True(t, shared.IsBadRequest(err))
	assert.Contains(t, err.Error(), "from cancelled to completed")
}
