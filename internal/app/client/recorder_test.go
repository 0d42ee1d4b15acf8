package client

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grampos/internal/domain/sale"
)

func offline(context.Context) bool { return false }
func online(context.Context) bool  { return true }

func cartLines() []sale.Line {
	return []sale.Line{
		{ProductID: 1, Name: "Rice 5kg", Price: 400, Qty: 2},
		{ProductID: 2, Name: "Oil 1l", Price: 200, Qty: 1},
	}
}

func TestRecorder_FinalizeSaleQueuesDurably(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil, offline, 18, testLogger())
	ctx := context.Background()

	sl, err := rec.FinalizeSale(ctx, cartLines(), sale.PaymentUPI, sale.Discount{Enabled: true, Percent: 10})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sl.InvoiceID, "inv-"))
	assert.Equal(t, int64(1), sl.BillNo)
	assert.InDelta(t, 1062, sl.Total, 1e-9)

	queue := store.UnsyncedSales(ctx)
	require.Len(t, queue, 1)
	assert.Equal(t, sl.InvoiceID, queue[0].InvoiceID)
	assert.False(t, queue[0].Synced)
}

func TestRecorder_OfflineFinalizeSucceeds(t *testing.T) {
	// Network state never touches the finalize path: no syncer, no server,
	// the sale still commits locally.
	store := newTestStore(t)
	rec := NewRecorder(store, nil, offline, 18, testLogger())

	sl, err := rec.FinalizeSale(context.Background(), cartLines(), sale.PaymentCash, sale.Discount{})

	require.NoError(t, err)
	assert.NotEmpty(t, sl.InvoiceID)
}

func TestRecorder_EmptyCartRejected(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil, offline, 18, testLogger())
	ctx := context.Background()

	_, err := rec.FinalizeSale(ctx, nil, sale.PaymentCash, sale.Discount{})

	assert.ErrorIs(t, err, sale.ErrEmptyCart)
	assert.Empty(t, store.UnsyncedSales(ctx))
}

func TestRecorder_OnlineFinalizeTriggersSync(t *testing.T) {
	store := newTestStore(t)
	syncer := NewSyncer(store, nil, 0, testLogger())
	rec := NewRecorder(store, syncer, online, 18, testLogger())

	_, err := rec.FinalizeSale(context.Background(), cartLines(), sale.PaymentCash, sale.Discount{})

	require.NoError(t, err)
	assert.Len(t, syncer.jobs, 1)
}

func TestRecorder_InvoiceIDsAreUnique(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil, offline, 18, testLogger())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		sl, err := rec.FinalizeSale(ctx, cartLines(), sale.PaymentCash, sale.Discount{})
		require.NoError(t, err)
		assert.False(t, seen[sl.InvoiceID])
		seen[sl.InvoiceID] = true
	}
}
