package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/sale"
)

// Recorder finalizes carts into immutable sale records. It is the only
// write path for sales and never talks to the network itself: a sale is
// durably queued before the recorder reports success, and synchronization
// is someone else's problem.
type Recorder struct {
	store      *Store
	syncer     *Syncer
	online     func(context.Context) bool
	log        *slog.Logger
	gstPercent float64
}

func NewRecorder(store *Store, syncer *Syncer, online func(context.Context) bool, gstPercent float64, log *slog.Logger) *Recorder {
	return &Recorder{
		store:      store,
		syncer:     syncer,
		online:     online,
		log:        log,
		gstPercent: gstPercent,
	}
}

// FinalizeSale computes the bill from the cart, assigns a fresh invoice id
// and durably queues it with synced=false. Storage failure propagates and
// no sale exists; network state never affects the outcome. If the device
// looks online, a sync cycle is triggered fire-and-forget after the save.
func (r *Recorder) FinalizeSale(ctx context.Context, lines []sale.Line, mode sale.PaymentMode, disc sale.Discount) (*sale.Sale, error) {
	sl, err := sale.Build(newInvoiceID(), lines, mode, disc, r.gstPercent, time.Now())
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveSale(ctx, sl); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	r.log.Info("sale finalized",
		"invoice_id", sl.InvoiceID,
		"bill_no", sl.BillNo,
		"total", sl.Total,
		"payment_mode", sl.PaymentMode,
	)

	if r.online != nil && r.syncer != nil && r.online(ctx) {
		r.syncer.Trigger()
	}

	return sl, nil
}

// newInvoiceID generates a prefixed, device-unique invoice identifier. A
// v4 UUID carries 122 bits of randomness, far beyond what collision-free
// replay across devices needs.
func newInvoiceID() string {
	return "inv-" + uuid.NewString()
}
