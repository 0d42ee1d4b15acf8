package sales

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"grampos/internal/app/server/storage/mysql"
	"grampos/internal/domain/sale"
)

// Ledger is the slice of storage the sales endpoints need.
type Ledger interface {
	CreateSale(ctx context.Context, sl *sale.Sale) (int64, bool, error)
	SalesByDate(ctx context.Context, date string) ([]mysql.Sale, error)
	DailySummaries(ctx context.Context) ([]mysql.DailySummary, error)
}

type Handler struct {
	storage    Ledger
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(storage Ledger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		storage:    storage,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.ingestOp(), h.ingest)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.dailySummaryOp(), h.dailySummary)
}

// ingest commits one device sale to the ledger.
//
// Validation failures answer 2xx with success=false: on the device a
// rejection is skipped past, while a non-2xx would halt the whole drain
// behind one bad record. The invoice id is the idempotency key — a replay
// of a committed invoice is acknowledged as success without a second row.
func (h *Handler) ingest(ctx context.Context, input *ingestInput) (*ingestOutput, error) {
	sl := input.Body.toSale()

	if sl.InvoiceID == "" {
		h.log.Warn("sale without invoice id rejected")
		return rejectOutput("invalid sale data received"), nil
	}
	if len(sl.Items) == 0 {
		h.log.Warn("sale without line items rejected", "invoice_id", sl.InvoiceID)
		return rejectOutput("sale has no line items"), nil
	}

	id, duplicate, err := h.storage.CreateSale(ctx, sl)
	if err != nil {
		h.log.Error("failed to insert sale", "invoice_id", sl.InvoiceID, "error", err)
		return nil, huma.Error500InternalServerError("failed to insert sale record")
	}

	if duplicate {
		h.log.Info("duplicate sale acknowledged", "invoice_id", sl.InvoiceID, "id", id)
	} else {
		h.log.Info("sale committed", "invoice_id", sl.InvoiceID, "id", id, "total", sl.Total)
	}

	return &ingestOutput{
		Body: ingestResponse{
			Success: true,
			ID:      id,
		},
	}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	rows, err := h.storage.SalesByDate(ctx, input.Date)
	if err != nil {
		h.log.Error("failed to load sales", "error", err)
		return nil, huma.Error500InternalServerError("failed to load sales data")
	}

	out := make([]saleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, saleRow{
			ID:          r.ID,
			BillNo:      r.BillNo,
			InvoiceID:   r.InvoiceID,
			Timestamp:   r.Timestamp,
			Subtotal:    r.Subtotal,
			GST:         r.GST,
			Total:       r.Total,
			PaymentMode: r.PaymentMode,
		})
	}

	return &listOutput{Body: listResponse{Success: true, Sales: out}}, nil
}

func (h *Handler) dailySummary(ctx context.Context, _ *dailySummaryInput) (*dailySummaryOutput, error) {
	rows, err := h.storage.DailySummaries(ctx)
	if err != nil {
		h.log.Error("failed to aggregate daily summary", "error", err)
		return nil, huma.Error500InternalServerError("failed to load daily summary")
	}

	return &dailySummaryOutput{Body: dailySummaryResponse{Success: true, Days: rows}}, nil
}

func rejectOutput(message string) *ingestOutput {
	return &ingestOutput{
		Body: ingestResponse{
			Success: false,
			Message: message,
		},
	}
}
