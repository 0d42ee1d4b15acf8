package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"grampos/internal/app/client/config"
)

// App wires the device-side components together: durable store, catalog
// and worker caches, sale recorder, sync engine and the API client.
type App struct {
	config  *config.Config
	log     *slog.Logger
	api     *httpClient
	store   *Store
	catalog *CatalogCache
	workers *WorkerDirectory
	rec     *Recorder
	syncer  *Syncer

	cancel context.CancelFunc
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := OpenStore(cfg.StorePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	api := newHTTPClient(cfg, log)
	syncer := NewSyncer(store, api, time.Duration(cfg.SettleMS)*time.Millisecond, log)

	app := &App{
		config:  cfg,
		log:     log,
		api:     api,
		store:   store,
		catalog: NewCatalogCache(api, store, log),
		workers: NewWorkerDirectory(api, store, log),
		syncer:  syncer,
	}
	app.rec = NewRecorder(store, syncer, app.IsOnline, cfg.GSTPercent, log)

	return app, nil
}

// Start launches the sync worker and the connectivity monitor.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.syncer.Start(ctx)
	go a.watchConnectivity(ctx)
}

// Close stops background work and releases the store.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
		a.syncer.Wait()
	}
	return a.store.Close()
}

// IsOnline is a cheap health probe with a short deadline.
func (a *App) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.api.HealthCheck(ctx) == nil
}

// watchConnectivity polls the server and triggers a drain on every
// offline-to-online transition, mirroring a browser "online" event.
func (a *App) watchConnectivity(ctx context.Context) {
	interval := time.Duration(a.config.PollSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := a.IsOnline(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := a.IsOnline(ctx)
			if now && !online {
				a.log.Info("connectivity regained, triggering sync")
				a.syncer.Trigger()
			}
			online = now
		}
	}
}

// Accessors used by the CLI commands.

func (a *App) Catalog() *CatalogCache    { return a.catalog }
func (a *App) Workers() *WorkerDirectory { return a.workers }
func (a *App) Recorder() *Recorder       { return a.rec }
func (a *App) Syncer() *Syncer           { return a.syncer }
func (a *App) Store() *Store             { return a.store }
func (a *App) Config() *config.Config    { return a.config }
