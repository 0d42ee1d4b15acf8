package products

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "products-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "Full product catalog",
		Description: "Returns every catalog row. Devices fully replace their local mirror with this list.",
		Tags:        []string{"products"},
		Middlewares: h.middleware,
	}
}
