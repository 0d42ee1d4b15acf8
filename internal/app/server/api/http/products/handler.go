package products

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/catalog"
)

// Lister is the slice of storage the catalog endpoint needs.
type Lister interface {
	Products(ctx context.Context) ([]catalog.Product, error)
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
	products, err := h.storage.Products(ctx)
	if err != nil {
		h.log.Error("failed to load catalog", "error", err)
		return nil, huma.Error500InternalServerError("failed to load products")
	}

	if products == nil {
		products = []catalog.Product{}
	}

	return &listOutput{
		Body: catalog.Payload{
			Success:  true,
			Products: products,
		},
	}, nil
}
