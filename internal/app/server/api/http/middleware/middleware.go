package middleware

import "github.com/danielgtaylor/huma/v2"

// Container accumulates the middleware chain for one handler.
type Container struct {
	chain huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.chain = append(c.chain, mw)
}

// GetAllAndClear hands the accumulated chain to a handler and resets the
// container so the next handler starts from an empty chain.
func (c *Container) GetAllAndClear() huma.Middlewares {
	chain := c.chain
	c.chain = nil
	return chain
}
