package workers

import "grampos/internal/domain/worker"

type listInput struct{}

type listOutput struct {
	Body worker.Payload
}
