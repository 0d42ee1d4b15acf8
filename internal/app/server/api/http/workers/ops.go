package workers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "workers-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/workers",
		Summary:     "Active staff directory",
		Description: "Returns active staff accounts including bcrypt password hashes, which devices cache for offline authentication.",
		Tags:        []string{"workers"},
		Middlewares: h.middleware,
	}
}
