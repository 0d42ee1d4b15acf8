package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/worker"
)

var ErrBadCredentials = errors.New("invalid username or password")

// WorkerDirectory mirrors the staff directory on the device so a cashier
// can be verified while the shop is offline. Only bcrypt hashes are cached,
// never plain passwords.
type WorkerDirectory struct {
	api   *httpClient
	store *Store
	log   *slog.Logger
}

func NewWorkerDirectory(api *httpClient, store *Store, log *slog.Logger) *WorkerDirectory {
	return &WorkerDirectory{api: api, store: store, log: log}
}

// Load refreshes the cached directory from the server, degrading to the
// local cache on failure. Same replace-don't-merge contract as the catalog.
func (d *WorkerDirectory) Load(ctx context.Context) []worker.Worker {
	workers, err := d.api.FetchWorkers(ctx)
	if err != nil {
		d.log.Info("worker fetch failed, serving local cache", "error", err)
		return d.store.Workers(ctx)
	}

	if err := d.store.ReplaceWorkers(ctx, workers); err != nil {
		d.log.Warn("failed to refresh worker cache", "error", err)
	}

	return workers
}

// Authenticate verifies a staff login against the cached directory. Works
// fully offline once the directory has been fetched at least once.
func (d *WorkerDirectory) Authenticate(ctx context.Context, username, password string) (*worker.Worker, error) {
	w, err := d.store.Worker(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadCredentials, username)
	}

	if w.Status != worker.StatusActive {
		return nil, fmt.Errorf("account disabled: %s", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return w, nil
}
