package workers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/worker"
)

// Lister is the slice of storage the worker-directory endpoint needs.
type Lister interface {
	Workers(ctx context.Context) ([]worker.Worker, error)
}

type Handler struct {
	storage    Lister
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(storage Lister, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		storage:    storage,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) list(ctx context.Context, _ *listInput) (*listOutput, error) {
	workers, err := h.storage.Workers(ctx)
	if err != nil {
		h.log.Error("failed to load workers", "error", err)
		return nil, huma.Error500InternalServerError("failed to load workers")
	}

	if workers == nil {
		workers = []worker.Worker{}
	}

	return &listOutput{
		Body: worker.Payload{
			Success: true,
			Workers: workers,
		},
	}, nil
}
