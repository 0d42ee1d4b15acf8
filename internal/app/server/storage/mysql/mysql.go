package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"grampos/internal/domain/catalog"
	"grampos/internal/domain/sale"
	"grampos/internal/domain/worker"
)

const connectAttempts = 5

// Product is the catalog row owned by the server.
type Product struct {
	ID       int64   `gorm:"primaryKey"`
	Name     string  `gorm:"size:120"`
	Qty      string  `gorm:"size:40"`
	Unit     string  `gorm:"size:20"`
	Stock    int
	Price    float64
	Category string `gorm:"size:60"`
	Barcode  string `gorm:"size:20;index"`
	Image    string
	Status   string `gorm:"size:10;default:active"`
}

// Worker is one staff account row.
type Worker struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:50"`
	Fullname     string `gorm:"size:120"`
	Role         string `gorm:"size:20;default:staff"`
	Phone        string `gorm:"size:20"`
	Status       string `gorm:"size:10;default:active"`
	PasswordHash string
	CreatedAt    time.Time
}

// Sale is one ledger row. InvoiceID carries a unique index: it is the
// idempotency key that makes offline replays safe. Line items are stored
// as a JSON column, matching the device's wire shape.
type Sale struct {
	ID              int64  `gorm:"primaryKey"`
	BillNo          int64
	InvoiceID       string `gorm:"uniqueIndex;size:50"`
	Timestamp       time.Time
	Items           string `gorm:"type:json"`
	Subtotal        float64
	Discount        float64
	DiscountPercent float64
	GST             float64 `gorm:"column:gst"`
	Total           float64
	PaymentMode     string `gorm:"size:10"`
	CreatedAt       time.Time
}

// DailySummary is one row of the per-day sales report.
type DailySummary struct {
	SaleDate   string  `json:"sale_date"`
	TotalBills int64   `json:"total_bills"`
	TotalSales float64 `json:"total_sales"`
	CashTotal  float64 `json:"cash_total"`
	UPITotal   float64 `json:"upi_total"`
}

type Storage struct {
	db  *gorm.DB
	log *slog.Logger
}

// New connects to MySQL with a bounded retry (the database container may
// still be warming up) and syncs the schema.
func New(dsn string, log *slog.Logger) (*Storage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Product{}, &Worker{}, &Sale{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Storage{db: db, log: log}, nil
}

// Products returns the catalog in the device wire shape.
func (s *Storage) Products(ctx context.Context) ([]catalog.Product, error) {
	var rows []Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	out := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Product{
			ID:       r.ID,
			Name:     r.Name,
			Qty:      r.Qty,
			Unit:     r.Unit,
			Stock:    r.Stock,
			Price:    r.Price,
			Category: r.Category,
			Barcode:  r.Barcode,
			Image:    r.Image,
			Status:   r.Status,
		})
	}
	return out, nil
}

// Workers returns active staff accounts, bcrypt hashes included, for
// device-side offline authentication.
func (s *Storage) Workers(ctx context.Context) ([]worker.Worker, error) {
	var rows []Worker
	if err := s.db.WithContext(ctx).
		Where("status = ?", worker.StatusActive).
		Order("username ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}

	out := make([]worker.Worker, 0, len(rows))
	for _, r := range rows {
		out = append(out, worker.Worker{
			Username:     r.Username,
			Fullname:     r.Fullname,
			Role:         r.Role,
			Phone:        r.Phone,
			Status:       r.Status,
			PasswordHash: r.PasswordHash,
		})
	}
	return out, nil
}

// CreateSale commits one sale to the ledger. Replays of an invoice id the
// ledger already holds are acknowledged with the existing row's id and no
// second insert; the client removes the queued copy either way.
func (s *Storage) CreateSale(ctx context.Context, sl *sale.Sale) (int64, bool, error) {
	items, err := json.Marshal(sl.Items)
	if err != nil {
		return 0, false, fmt.Errorf("failed to marshal items: %w", err)
	}

	row := Sale{
		BillNo:          sl.BillNo,
		InvoiceID:       sl.InvoiceID,
		Timestamp:       sl.Timestamp,
		Items:           string(items),
		Subtotal:        sl.Subtotal,
		Discount:        sl.Discount,
		DiscountPercent: sl.DiscountPercent,
		GST:             sl.GST,
		Total:           sl.Total,
		PaymentMode:     string(sl.PaymentMode),
	}

	err = s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing Sale
		if err := s.db.WithContext(ctx).
			Where("invoice_id = ?", sl.InvoiceID).
			First(&existing).Error; err != nil {
			return 0, false, fmt.Errorf("failed to resolve duplicate invoice %s: %w", sl.InvoiceID, err)
		}
		s.log.Info("duplicate invoice replayed, acknowledging existing row",
			"invoice_id", sl.InvoiceID, "id", existing.ID)
		return existing.ID, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert sale %s: %w", sl.InvoiceID, err)
	}

	return row.ID, false, nil
}

// SalesByDate lists ledger rows, optionally restricted to one day
// (YYYY-MM-DD).
func (s *Storage) SalesByDate(ctx context.Context, date string) ([]Sale, error) {
	q := s.db.WithContext(ctx).Order("timestamp DESC")
	if date != "" {
		q = q.Where("DATE(timestamp) = ?", date)
	}

	var rows []Sale
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return rows, nil
}

// DailySummaries aggregates the last 30 days of sales per day and payment
// mode.
func (s *Storage) DailySummaries(ctx context.Context) ([]DailySummary, error) {
	var rows []DailySummary
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			DATE(timestamp) AS sale_date,
			COUNT(*) AS total_bills,
			SUM(total) AS total_sales,
			SUM(CASE WHEN payment_mode = 'Cash' THEN total ELSE 0 END) AS cash_total,
			SUM(CASE WHEN payment_mode = 'UPI' THEN total ELSE 0 END) AS upi_total
		FROM sales
		GROUP BY DATE(timestamp)
		ORDER BY sale_date DESC
		LIMIT 30
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily summary: %w", err)
	}
	return rows, nil
}
