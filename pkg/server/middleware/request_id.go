package middleware

import (
	"context"

	"github.com/NeuralTrust/PrivacyGuard/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type requestIDMiddleware struct{}

// NewRequestIDMiddleware propagates X-Request-Id, generating one when the
// client did not send it.
func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(common.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(common.RequestIDContextKey, requestID)
		c.SetUserContext(context.WithValue(c.UserContext(), common.RequestIDContextKey, requestID))
		c.Set(common.RequestIDHeader, requestID)
		return c.Next()
	}
}
