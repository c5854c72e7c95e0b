// Package middleware holds the fiber handlers that run in front of every
// PrivacyGuard route: panic recovery, request ids, request metrics and body
// decompression.
package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport carries the global middleware chain from the dependency container
// to the router. Order is registration order.
type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	t := &Transport{Middlewares: make([]Middleware, 0, len(middlewares))}
	for _, m := range middlewares {
		t.RegisterMiddleware(m)
	}
	return t
}

// GetMiddlewares returns the chain in the shape fiber.App.Use accepts.
func (t *Transport) GetMiddlewares() []interface{} {
	handlers := make([]interface{}, 0, len(t.Middlewares))
	for _, m := range t.Middlewares {
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}

// RegisterMiddleware appends m to the chain. Nil middlewares are ignored so
// optional ones can be passed unconditionally.
func (t *Transport) RegisterMiddleware(m Middleware) {
	if m == nil {
		return
	}
	t.Middlewares = append(t.Middlewares, m)
}
