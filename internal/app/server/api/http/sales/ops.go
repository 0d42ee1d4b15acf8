package sales

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) ingestOp() huma.Operation {
	return huma.Operation{
		OperationID: "sales-ingest",
		Method:      http.MethodPost,
		Path:        "/api/v1/sales",
		Summary:     "Ingest one sale from a device",
		Description: "Commits a finalized sale to the ledger. The invoice id is treated as an idempotency key: replaying a committed invoice acknowledges the existing row. Validation failures are reported with success=false and HTTP 200 so one bad record does not halt an offline-queue drain.",
		Tags:        []string{"sales"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "sales-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/sales",
		Summary:     "List ledger sales",
		Tags:        []string{"sales"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) dailySummaryOp() huma.Operation {
	return huma.Operation{
		OperationID: "sales-daily-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/sales/summary/daily",
		Summary:     "Per-day sales totals",
		Description: "Aggregates the last 30 days of sales per day and payment mode.",
		Tags:        []string{"sales", "reports"},
		Middlewares: h.middleware,
	}
}
