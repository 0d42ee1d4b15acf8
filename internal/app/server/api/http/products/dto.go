package products

import "grampos/internal/domain/catalog"

type listInput struct{}

type listOutput struct {
	Body catalog.Payload
}
