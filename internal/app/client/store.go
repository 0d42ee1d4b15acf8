package client

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/catalog"
	"grampos/internal/domain/sale"
	"grampos/internal/domain/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const billCounter = "bill_no"

// Store is the per-device durable store: the product/worker caches, the
// pending-sales queue and the bill-number counter, all in one SQLite file.
//
// Open and write failures propagate; reads degrade to empty results so the
// terminal keeps working on a corrupted cache (network-only mode).
type Store struct {
	db  *sql.DB
	log *slog.Logger

	// syncedIndex records whether the secondary index on sales.synced is
	// usable this session. Checked at the query site, never exception-driven.
	syncedIndex atomic.Bool
}

// OpenStore opens (and lazily creates or upgrades) the device store.
// Schema upgrades are additive; a failure to create the synced index is
// recorded and downgrades queue reads to full scans, it never fails open.
func OpenStore(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	s := &Store{db: db, log: log}

	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate device store: %w", err)
	}

	s.ensureSyncedIndex()

	return s, nil
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration engine: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// ensureSyncedIndex tries to create the secondary index used for queue
// reads. Best-effort: on failure the session falls back to full scans.
func (s *Store) ensureSyncedIndex() {
	_, err := s.db.Exec("CREATE INDEX IF NOT EXISTS idx_sales_synced ON sales (synced)")
	if err != nil {
		s.log.Warn("synced index unavailable, queue reads will use full scans", "error", err)
		s.syncedIndex.Store(false)
		return
	}
	s.syncedIndex.Store(true)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Products ====================

// ReplaceProducts clears the product cache and bulk-inserts the fresh
// catalog as one transaction. Cache collections are always fully replaced,
// never partially merged.
func (s *Store) ReplaceProducts(ctx context.Context, items []catalog.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin product replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear product cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, name, qty, unit, stock, price, category, barcode, image, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare product insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range items {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Qty, p.Unit, p.Stock,
			p.Price, p.Category, p.Barcode, p.Image, p.Status); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// PutProduct upserts a single cached product.
func (s *Store) PutProduct(ctx context.Context, p catalog.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, qty, unit, stock, price, category, barcode, image, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, qty = excluded.qty, unit = excluded.unit,
			stock = excluded.stock, price = excluded.price, category = excluded.category,
			barcode = excluded.barcode, image = excluded.image, status = excluded.status
	`, p.ID, p.Name, p.Qty, p.Unit, p.Stock, p.Price, p.Category, p.Barcode, p.Image, p.Status)
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
	}
	return nil
}

// Products returns the cached catalog. Read failures degrade to an empty
// list so catalog browsing is never blocked by a broken cache.
func (s *Store) Products(ctx context.Context) []catalog.Product {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, qty, unit, stock, price, category, barcode, image, status
		FROM products ORDER BY name ASC
	`)
	if err != nil {
		s.log.Warn("product cache read failed", "error", err)
		return nil
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Qty, &p.Unit, &p.Stock,
			&p.Price, &p.Category, &p.Barcode, &p.Image, &p.Status); err != nil {
			s.log.Warn("product cache scan failed", "error", err)
			return nil
		}
		out = append(out, p)
	}
	return out
}

// ==================== Sales ====================

// SaveSale durably queues a finalized sale with synced=false and assigns
// its bill number from the device counter. The counter advances in the same
// transaction as the insert, so a crash can never burn or duplicate a bill
// number.
func (s *Store) SaveSale(ctx context.Context, sl *sale.Sale) error {
	if sl == nil || sl.InvoiceID == "" {
		return fmt.Errorf("sale is missing an invoice id")
	}

	items, err := json.Marshal(sl.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal sale items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sale save: %w", err)
	}
	defer tx.Rollback()

	var current int64
	if err := tx.QueryRowContext(ctx,
		"SELECT value FROM counters WHERE name = ?", billCounter).Scan(&current); err != nil {
		return fmt.Errorf("failed to read bill counter: %w", err)
	}
	billNo := current + 1

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sales (invoice_id, bill_no, ts, items, subtotal, discount,
		                   discount_percent, gst, total, payment_mode, synced, created_at, sync_attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, 0)
	`, sl.InvoiceID, billNo, sl.Timestamp.Format(time.RFC3339), string(items),
		sl.Subtotal, sl.Discount, sl.DiscountPercent, sl.GST, sl.Total,
		string(sl.PaymentMode), sl.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert sale %s: %w", sl.InvoiceID, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE counters SET value = ? WHERE name = ?", billNo, billCounter); err != nil {
		return fmt.Errorf("failed to advance bill counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale %s: %w", sl.InvoiceID, err)
	}

	sl.BillNo = billNo
	sl.Synced = false
	return nil
}

const saleColumns = `invoice_id, bill_no, ts, items, subtotal, discount,
	discount_percent, gst, total, payment_mode, synced, created_at, sync_attempts`

// UnsyncedSales returns the pending queue in bill-number (insertion) order.
// It prefers the secondary index on synced; if the index is unavailable or
// the indexed query errors, it transparently falls back to a full scan with
// an in-memory filter. Both paths return identical sets. Read failures
// degrade to an empty queue.
func (s *Store) UnsyncedSales(ctx context.Context) []sale.Sale {
	if s.syncedIndex.Load() {
		out, err := s.unsyncedByIndex(ctx)
		if err == nil {
			return out
		}
		s.log.Warn("indexed queue read failed, falling back to full scan", "error", err)
		s.syncedIndex.Store(false)
	}

	out, err := s.unsyncedByScan(ctx)
	if err != nil {
		s.log.Warn("queue read failed", "error", err)
		return nil
	}
	return out
}

func (s *Store) unsyncedByIndex(ctx context.Context) ([]sale.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales INDEXED BY idx_sales_synced
		WHERE synced = 0
		ORDER BY bill_no ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows, false)
}

func (s *Store) unsyncedByScan(ctx context.Context) ([]sale.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		ORDER BY bill_no ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows, true)
}

func scanSales(rows *sql.Rows, filterUnsynced bool) ([]sale.Sale, error) {
	var out []sale.Sale
	for rows.Next() {
		var (
			sl        sale.Sale
			items     string
			ts        string
			createdAt string
			synced    int
		)
		if err := rows.Scan(&sl.InvoiceID, &sl.BillNo, &ts, &items, &sl.Subtotal,
			&sl.Discount, &sl.DiscountPercent, &sl.GST, &sl.Total, &sl.PaymentMode,
			&synced, &createdAt, &sl.SyncAttempts); err != nil {
			return nil, err
		}

		sl.Synced = synced != 0
		if filterUnsynced && sl.Synced {
			continue
		}

		if err := json.Unmarshal([]byte(items), &sl.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items of %s: %w", sl.InvoiceID, err)
		}
		sl.Timestamp, _ = time.Parse(time.RFC3339, ts)
		sl.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		out = append(out, sl)
	}
	return out, rows.Err()
}

// RemoveSale retires a sale whose server acknowledgment has been confirmed.
func (s *Store) RemoveSale(ctx context.Context, invoiceID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM sales WHERE invoice_id = ?", invoiceID); err != nil {
		return fmt.Errorf("failed to remove sale %s: %w", invoiceID, err)
	}
	return nil
}

// MarkRejected bumps the attempt counter of a server-rejected sale so a
// record stuck in the queue is visible to the operator.
func (s *Store) MarkRejected(ctx context.Context, invoiceID string) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE sales SET sync_attempts = sync_attempts + 1 WHERE invoice_id = ?", invoiceID); err != nil {
		return fmt.Errorf("failed to mark sale %s rejected: %w", invoiceID, err)
	}
	return nil
}

// ==================== Workers ====================

// ReplaceWorkers clears the cached staff directory and bulk-inserts the
// fresh one as a single transaction.
func (s *Store) ReplaceWorkers(ctx context.Context, items []worker.Worker) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin worker replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM workers"); err != nil {
		return fmt.Errorf("failed to clear worker cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO workers (username, fullname, role, phone, status, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare worker insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range items {
		if _, err := stmt.ExecContext(ctx, w.Username, w.Fullname, w.Role,
			w.Phone, w.Status, w.PasswordHash); err != nil {
			return fmt.Errorf("failed to insert worker %s: %w", w.Username, err)
		}
	}

	return tx.Commit()
}

// Workers returns the cached staff directory; reads degrade to empty.
func (s *Store) Workers(ctx context.Context) []worker.Worker {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, fullname, role, phone, status, password_hash
		FROM workers ORDER BY username ASC
	`)
	if err != nil {
		s.log.Warn("worker cache read failed", "error", err)
		return nil
	}
	defer rows.Close()

	var out []worker.Worker
	for rows.Next() {
		var w worker.Worker
		if err := rows.Scan(&w.Username, &w.Fullname, &w.Role, &w.Phone,
			&w.Status, &w.PasswordHash); err != nil {
			s.log.Warn("worker cache scan failed", "error", err)
			return nil
		}
		out = append(out, w)
	}
	return out
}

// Worker looks up one cached staff account by username.
func (s *Store) Worker(ctx context.Context, username string) (*worker.Worker, error) {
	var w worker.Worker
	err := s.db.QueryRowContext(ctx, `
		SELECT username, fullname, role, phone, status, password_hash
		FROM workers WHERE username = ?
	`, username).Scan(&w.Username, &w.Fullname, &w.Role, &w.Phone, &w.Status, &w.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("worker not found: %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read worker %s: %w", username, err)
	}
	return &w, nil
}
