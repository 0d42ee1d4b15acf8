//GET  /api/v1/health              # Liveness probe devices poll for connectivity
//GET  /api/v1/products            # Product catalog for device-side caching
//GET  /api/v1/workers             # Staff directory for offline authentication
//POST /api/v1/sales               # Idempotent sale ingestion from device queues
//GET  /api/v1/sales               # Ledger listing, optional ?date= filter
//GET  /api/v1/sales/summary/daily # Per-day totals for the last 30 days

package api

import (
	healthAPI "grampos/internal/app/server/api/http/health"
	"grampos/internal/app/server/api/http/middleware"
	"grampos/internal/app/server/api/http/middleware/logger"
	productsAPI "grampos/internal/app/server/api/http/products"
	salesAPI "grampos/internal/app/server/api/http/sales"
	workersAPI "grampos/internal/app/server/api/http/workers"
	"grampos/internal/app/server/storage/mysql"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Products *productsAPI.Handler
	Workers  *workersAPI.Handler
	Sales    *salesAPI.Handler
}

// New creates a *chi.Mux with ALL operations registered through huma.Register.
func New(storage *mysql.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("GramPOS API", "1.0.0")

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Products.SetupRoutes(API)
	h.Workers.SetupRoutes(API)
	h.Sales.SetupRoutes(API)

	return mux
}

func handlers(storage *mysql.Storage, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	productsHandler := productsAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	workersHandler := workersAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	salesHandler := salesAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Products: productsHandler,
		Workers:  workersHandler,
		Sales:    salesHandler,
	}
}
