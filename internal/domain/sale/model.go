package sale

import (
	"errors"
	"time"
)

// PaymentMode is how the customer settled the bill.
type PaymentMode string

const (
	PaymentCash PaymentMode = "Cash"
	PaymentUPI  PaymentMode = "UPI"
)

var ErrEmptyCart = errors.New("cart is empty")

// Line is one cart position frozen into a finalized sale. Price is the unit
// price at the time the item was added, not the current catalog price.
type Line struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"lineTotal"`
}

// Discount is the operator-entered percentage discount for a single bill.
type Discount struct {
	Enabled bool
	Percent float64
}

// Sale is an immutable billing transaction. Totals are computed once by
// Build and never recomputed after finalization. InvoiceID is the natural
// idempotency key for the server-side ledger; BillNo is a per-device
// sequence assigned by the durable store on save.
type Sale struct {
	InvoiceID       string      `json:"invoiceId"`
	BillNo          int64       `json:"billNo"`
	Timestamp       time.Time   `json:"timestamp"`
	Items           []Line      `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	DiscountPercent float64     `json:"discountPercent"`
	GST             float64     `json:"gst"`
	Total           float64     `json:"total"`
	PaymentMode     PaymentMode `json:"paymentMode"`

	// Local-only bookkeeping, never sent to the server.
	Synced       bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
	SyncAttempts int       `json:"-"`
}

// Build computes the money columns of a sale from its cart lines.
//
//	subtotal     = sum of line totals
//	discount     = subtotal * percent/100 (percent clamped to [0,100])
//	taxable base = max(0, subtotal - discount)
//	gst          = taxable base * gstPercent/100
//	total        = taxable base + gst
func Build(invoiceID string, lines []Line, mode PaymentMode, disc Discount, gstPercent float64, now time.Time) (*Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Line, len(lines))
	subtotal := 0.0
	for i, l := range lines {
		l.LineTotal = float64(l.Qty) * l.Price
		items[i] = l
		subtotal += l.LineTotal
	}

	percent := 0.0
	if disc.Enabled {
		percent = clampPercent(disc.Percent)
	}
	discountAmount := subtotal * percent / 100

	taxableBase := subtotal - discountAmount
	if taxableBase < 0 {
		taxableBase = 0
	}
	gst := taxableBase * gstPercent / 100

	return &Sale{
		InvoiceID:       invoiceID,
		Timestamp:       now,
		Items:           items,
		Subtotal:        subtotal,
		Discount:        discountAmount,
		DiscountPercent: percent,
		GST:             gst,
		Total:           taxableBase + gst,
		PaymentMode:     mode,
		CreatedAt:       now,
	}, nil
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
