package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grampos/internal/app/client/config"
	"grampos/internal/domain/sale"
)

// ledgerStub plays the server side of the sales-ingestion protocol: it
// records every invoice id it receives and answers per a script.
type ledgerStub struct {
	mu       sync.Mutex
	received []string
	reject   map[string]bool
	failFrom int
}

func (l *ledgerStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/health" {
			w.WriteHeader(http.StatusOK)
			return
		}

		var sl sale.Sale
		if err := json.NewDecoder(r.Body).Decode(&sl); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		l.mu.Lock()
		n := len(l.received)
		l.received = append(l.received, sl.InvoiceID)
		rejected := l.reject[sl.InvoiceID]
		failing := l.failFrom > 0 && n+1 >= l.failFrom
		l.mu.Unlock()

		switch {
		case failing:
			http.Error(w, "gateway exploded", http.StatusBadGateway)
		case rejected:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":false,"message":"invalid sale data received"}`)
		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":true,"id":1}`)
		}
	}
}

func (l *ledgerStub) invoices() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.received...)
}

func newTestSyncer(t *testing.T, handler http.Handler) (*Syncer, *Store) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.Config{ServerAddress: strings.TrimPrefix(ts.URL, "http://")}
	api := newHTTPClient(cfg, testLogger())
	store := newTestStore(t)

	return NewSyncer(store, api, 0, testLogger()), store
}

func queueSales(t *testing.T, store *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.SaveSale(context.Background(), testSale(t, id)))
	}
}

func TestSyncer_DrainSubmitsInOrder(t *testing.T) {
	ledger := &ledgerStub{}
	s, store := newTestSyncer(t, ledger.handler())
	ctx := context.Background()

	queueSales(t, store, "inv-1", "inv-2", "inv-3")

	res := s.drain(ctx)

	assert.Equal(t, 3, res.Submitted)
	assert.Equal(t, 0, res.Rejected)
	assert.False(t, res.Halted)
	assert.Equal(t, []string{"inv-1", "inv-2", "inv-3"}, ledger.invoices())
	assert.Empty(t, store.UnsyncedSales(ctx))
}

func TestSyncer_NetworkFailureHaltsDrain(t *testing.T) {
	// The second submission hits a dying gateway; the cycle must stop with
	// the failed sale and everything behind it still queued, in order.
	ledger := &ledgerStub{failFrom: 2}
	s, store := newTestSyncer(t, ledger.handler())
	ctx := context.Background()

	queueSales(t, store, "inv-1", "inv-2", "inv-3")

	res := s.drain(ctx)

	assert.Equal(t, 1, res.Submitted)
	assert.True(t, res.Halted)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, []string{"inv-1", "inv-2"}, ledger.invoices())

	queue := store.UnsyncedSales(ctx)
	require.Len(t, queue, 2)
	assert.Equal(t, "inv-2", queue[0].InvoiceID)
	assert.Equal(t, "inv-3", queue[1].InvoiceID)
}

func TestSyncer_RejectionDoesNotBlockQueue(t *testing.T) {
	ledger := &ledgerStub{reject: map[string]bool{"inv-2": true}}
	s, store := newTestSyncer(t, ledger.handler())
	ctx := context.Background()

	queueSales(t, store, "inv-1", "inv-2", "inv-3")

	res := s.drain(ctx)

	assert.Equal(t, 2, res.Submitted)
	assert.Equal(t, 1, res.Rejected)
	assert.False(t, res.Halted)
	assert.Equal(t, []string{"inv-1", "inv-2", "inv-3"}, ledger.invoices())

	// The rejected sale stays queued for the operator, marked as attempted.
	queue := store.UnsyncedSales(ctx)
	require.Len(t, queue, 1)
	assert.Equal(t, "inv-2", queue[0].InvoiceID)
	assert.Equal(t, 1, queue[0].SyncAttempts)
}

func TestSyncer_NoDuplicateSubmissions(t *testing.T) {
	ledger := &ledgerStub{}
	s, store := newTestSyncer(t, ledger.handler())
	ctx := context.Background()

	queueSales(t, store, "inv-1", "inv-2")

	first := s.drain(ctx)
	second := s.drain(ctx)

	assert.Equal(t, 2, first.Submitted)
	assert.Equal(t, 0, second.Submitted)
	assert.Equal(t, []string{"inv-1", "inv-2"}, ledger.invoices())
	assert.Empty(t, store.UnsyncedSales(ctx))
}

func TestSyncer_ReconnectScenario(t *testing.T) {
	// Three sales finalized while the server is down, then connectivity
	// returns and a single triggered cycle drains them all in order.
	ledger := &ledgerStub{failFrom: 1}
	s, store := newTestSyncer(t, ledger.handler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queueSales(t, store, "inv-1", "inv-2", "inv-3")

	s.Start(ctx)

	// Offline attempt: nothing leaves the queue.
	res, err := s.DrainNow(ctx)
	require.NoError(t, err)
	assert.True(t, res.Halted)
	assert.Len(t, store.UnsyncedSales(ctx), 3)

	// Server is back.
	ledger.mu.Lock()
	ledger.failFrom = 0
	ledger.received = nil
	ledger.mu.Unlock()

	res, err = s.DrainNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Submitted)
	assert.False(t, res.Halted)
	assert.Equal(t, []string{"inv-1", "inv-2", "inv-3"}, ledger.invoices())
	assert.Empty(t, store.UnsyncedSales(ctx))

	cancel()
	s.Wait()
}

func TestSyncer_TriggerCoalesces(t *testing.T) {
	s := NewSyncer(nil, nil, 0, testLogger())

	// Without a running consumer, any number of triggers leaves at most one
	// job pending.
	for i := 0; i < 5; i++ {
		s.Trigger()
	}

	assert.Len(t, s.jobs, 1)
}

func TestSyncer_DrainNowHonorsContext(t *testing.T) {
	s := NewSyncer(nil, nil, 0, testLogger())
	s.Trigger() // occupy the job slot so DrainNow blocks

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.DrainNow(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRejectedError_DetectedThroughWrapping(t *testing.T) {
	err := fmt.Errorf("push failed: %w", &RejectedError{Message: "nope"})
	assert.True(t, isRejection(err))
	assert.False(t, isRejection(fmt.Errorf("plain network error")))
}
