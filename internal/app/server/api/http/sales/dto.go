package sales

import (
	"time"

	"grampos/internal/app/server/storage/mysql"
	"grampos/internal/domain/sale"
)

// ingestRequest mirrors the device wire shape of a sale. Every field is
// schema-optional: malformed sales must reach the handler so it can answer
// with a success=false rejection instead of a 422 that would halt a drain.
type ingestRequest struct {
	InvoiceID       string     `json:"invoiceId,omitempty" required:"false" doc:"Client-generated invoice identifier, the idempotency key"`
	BillNo          int64      `json:"billNo,omitempty" required:"false"`
	Timestamp       time.Time  `json:"timestamp,omitempty" required:"false"`
	Items           []saleItem `json:"items,omitempty" required:"false"`
	Subtotal        float64    `json:"subtotal,omitempty" required:"false"`
	Discount        float64    `json:"discount,omitempty" required:"false"`
	DiscountPercent float64    `json:"discountPercent,omitempty" required:"false"`
	GST             float64    `json:"gst,omitempty" required:"false"`
	Total           float64    `json:"total,omitempty" required:"false"`
	PaymentMode     string     `json:"paymentMode,omitempty" required:"false"`
}

type saleItem struct {
	ProductID int64   `json:"productId,omitempty" required:"false"`
	Name      string  `json:"name,omitempty" required:"false"`
	Price     float64 `json:"price,omitempty" required:"false"`
	Qty       int     `json:"qty,omitempty" required:"false"`
	LineTotal float64 `json:"lineTotal,omitempty" required:"false"`
}

func (r ingestRequest) toSale() *sale.Sale {
	items := make([]sale.Line, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, sale.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Qty:       it.Qty,
			LineTotal: it.LineTotal,
		})
	}

	mode := sale.PaymentMode(r.PaymentMode)
	if mode == "" {
		mode = sale.PaymentCash
	}

	return &sale.Sale{
		InvoiceID:       r.InvoiceID,
		BillNo:          r.BillNo,
		Timestamp:       r.Timestamp,
		Items:           items,
		Subtotal:        r.Subtotal,
		Discount:        r.Discount,
		DiscountPercent: r.DiscountPercent,
		GST:             r.GST,
		Total:           r.Total,
		PaymentMode:     mode,
	}
}

type ingestInput struct {
	Body ingestRequest
}

type ingestResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type ingestOutput struct {
	Body ingestResponse
}

type listInput struct {
	Date string `query:"date" required:"false" example:"2026-08-28" doc:"Restrict to one day (YYYY-MM-DD)"`
}

type saleRow struct {
	ID          int64     `json:"id"`
	BillNo      int64     `json:"billNo"`
	InvoiceID   string    `json:"invoiceId"`
	Timestamp   time.Time `json:"timestamp"`
	Subtotal    float64   `json:"subtotal"`
	GST         float64   `json:"gst"`
	Total       float64   `json:"total"`
	PaymentMode string    `json:"paymentMode"`
}

type listResponse struct {
	Success bool      `json:"success"`
	Sales   []saleRow `json:"sales"`
}

type listOutput struct {
	Body listResponse
}

type dailySummaryInput struct{}

type dailySummaryResponse struct {
	Success bool                 `json:"success"`
	Days    []mysql.DailySummary `json:"days"`
}

type dailySummaryOutput struct {
	Body dailySummaryResponse
}
