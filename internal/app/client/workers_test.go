package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"grampos/internal/domain/worker"
)

func seedWorker(t *testing.T, store *Store, username, password, status string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, store.ReplaceWorkers(context.Background(), []worker.Worker{
		{
			Username:     username,
			Fullname:     "Asha K",
			Role:         "cashier",
			Status:       status,
			PasswordHash: string(hash),
		},
	}))
}

func TestWorkerDirectory_AuthenticateOffline(t *testing.T) {
	store := newTestStore(t)
	dir := NewWorkerDirectory(nil, store, testLogger())
	ctx := context.Background()

	// No server in sight: authentication runs purely against the cache.
	seedWorker(t, store, "asha", "secret123", worker.StatusActive)

	w, err := dir.Authenticate(ctx, "asha", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", w.Fullname)
	assert.Equal(t, "cashier", w.Role)
}

func TestWorkerDirectory_AuthenticateFailures(t *testing.T) {
	store := newTestStore(t)
	dir := NewWorkerDirectory(nil, store, testLogger())
	ctx := context.Background()

	seedWorker(t, store, "asha", "secret123", worker.StatusActive)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "asha", password: "nope"},
		{name: "unknown user", username: "ghost", password: "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.Authenticate(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrBadCredentials)
		})
	}
}

func TestWorkerDirectory_DisabledAccount(t *testing.T) {
	store := newTestStore(t)
	dir := NewWorkerDirectory(nil, store, testLogger())
	ctx := context.Background()

	seedWorker(t, store, "asha", "secret123", worker.StatusDisabled)

	_, err := dir.Authenticate(ctx, "asha", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}
