package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"grampos/internal/app/server/storage/mysql"
	"grampos/internal/domain/sale"
)

// ledgerStub is an in-memory Ledger keyed on invoice id.
type ledgerStub struct {
	sales  map[string]int64
	nextID int64
	err    error
}

func newLedgerStub() *ledgerStub {
	return &ledgerStub{sales: make(map[string]int64), nextID: 1}
}

func (l *ledgerStub) CreateSale(_ context.Context, sl *sale.Sale) (int64, bool, error) {
	if l.err != nil {
		return 0, false, l.err
	}
	if id, ok := l.sales[sl.InvoiceID]; ok {
		return id, true, nil
	}
	id := l.nextID
	l.nextID++
	l.sales[sl.InvoiceID] = id
	return id, false, nil
}

func (l *ledgerStub) SalesByDate(_ context.Context, _ string) ([]mysql.Sale, error) {
	if l.err != nil {
		return nil, l.err
	}
	return []mysql.Sale{{ID: 1, InvoiceID: "inv-1", BillNo: 1, Timestamp: time.Now(), Total: 118}}, nil
}

func (l *ledgerStub) DailySummaries(_ context.Context) ([]mysql.DailySummary, error) {
	if l.err != nil {
		return nil, l.err
	}
	return []mysql.DailySummary{{SaleDate: "2026-08-28", TotalBills: 3, TotalSales: 354, CashTotal: 236, UPITotal: 118}}, nil
}

func validIngest() *ingestInput {
	return &ingestInput{
		Body: ingestRequest{
			InvoiceID: "inv-abc",
			BillNo:    1,
			Timestamp: time.Now(),
			Items: []saleItem{
				{ProductID: 1, Name: "Rice 5kg", Price: 400, Qty: 2, LineTotal: 800},
			},
			Subtotal:    800,
			GST:         144,
			Total:       944,
			PaymentMode: "Cash",
		},
	}
}

func TestHandler_ingest(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ingestInput)
		wantSuccess bool
	}{
		{
			name:        "valid sale is committed",
			mutate:      func(*ingestInput) {},
			wantSuccess: true,
		},
		{
			name:        "missing invoice id is rejected",
			mutate:      func(in *ingestInput) { in.Body.InvoiceID = "" },
			wantSuccess: false,
		},
		{
			name:        "empty cart is rejected",
			mutate:      func(in *ingestInput) { in.Body.Items = nil },
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ledger := newLedgerStub()
			handler := NewHandler(ledger, slog.Default(), huma.Middlewares{})
			input := validIngest()
			tt.mutate(input)

			// Act
			output, err := handler.ingest(context.Background(), input)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, output.Body.Success)
			if !tt.wantSuccess {
				// Rejections answer 2xx with a message so a device drain
				// skips the record instead of halting.
				assert.NotEmpty(t, output.Body.Message)
			}
		})
	}
}

func TestHandler_ingest_ReplayIsIdempotent(t *testing.T) {
	// Arrange
	ledger := newLedgerStub()
	handler := NewHandler(ledger, slog.Default(), huma.Middlewares{})
	ctx := context.Background()

	// Act
	first, err := handler.ingest(ctx, validIngest())
	require.NoError(t, err)
	second, err := handler.ingest(ctx, validIngest())
	require.NoError(t, err)

	// Assert
	assert.True(t, first.Body.Success)
	assert.True(t, second.Body.Success)
	assert.Equal(t, first.Body.ID, second.Body.ID)
	assert.Len(t, ledger.sales, 1)
}

func TestHandler_ingest_StorageError(t *testing.T) {
	// Arrange
	ledger := newLedgerStub()
	ledger.err = errors.New("connection refused")
	handler := NewHandler(ledger, slog.Default(), huma.Middlewares{})

	// Act
	output, err := handler.ingest(context.Background(), validIngest())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_ingest_DefaultsPaymentMode(t *testing.T) {
	input := validIngest()
	input.Body.PaymentMode = ""

	sl := input.Body.toSale()

	assert.Equal(t, sale.PaymentCash, sl.PaymentMode)
}

func TestHandler_list(t *testing.T) {
	// Arrange
	handler := NewHandler(newLedgerStub(), slog.Default(), huma.Middlewares{})

	// Act
	output, err := handler.list(context.Background(), &listInput{Date: "2026-08-28"})

	// Assert
	require.NoError(t, err)
	assert.True(t, output.Body.Success)
	require.Len(t, output.Body.Sales, 1)
	assert.Equal(t, "inv-1", output.Body.Sales[0].InvoiceID)
}

func TestHandler_dailySummary(t *testing.T) {
	// Arrange
	handler := NewHandler(newLedgerStub(), slog.Default(), huma.Middlewares{})

	// Act
	output, err := handler.dailySummary(context.Background(), &dailySummaryInput{})

	// Assert
	require.NoError(t, err)
	assert.True(t, output.Body.Success)
	require.Len(t, output.Body.Days, 1)
	assert.Equal(t, "2026-08-28", output.Body.Days[0].SaleDate)
}
