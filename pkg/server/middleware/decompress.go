package middleware

import (
	"errors"

	"github.com/NeuralTrust/PrivacyGuard/pkg/common"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/httpx"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type decompressMiddleware struct {
	logger    *logrus.Logger
	bodyLimit int
}

// NewDecompressMiddleware decodes request bodies sent with a Content-Encoding
// header so handlers always see plain JSON. A body that inflates past
// bodyLimit bytes is rejected with 413; bodyLimit <= 0 uses the default.
func NewDecompressMiddleware(logger *logrus.Logger, bodyLimit int) Middleware {
	if bodyLimit <= 0 {
		bodyLimit = common.DefaultBodyLimit
	}
	return &decompressMiddleware{logger: logger, bodyLimit: bodyLimit}
}

func (m *decompressMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		encoding := c.Get(fiber.HeaderContentEncoding)
		if encoding == "" || len(c.Body()) == 0 {
			return c.Next()
		}

		body, changed, err := httpx.DecodeBody(encoding, c.Body(), m.bodyLimit)
		if err != nil {
			if errors.Is(err, httpx.ErrUnsupportedEncoding) {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
			}
			if errors.Is(err, httpx.ErrBodyTooLarge) {
				m.logger.WithFields(logrus.Fields{
					"encoding":   encoding,
					"compressed": len(c.Body()),
					"limit":      m.bodyLimit,
				}).Warn("rejecting compressed body over the size limit")
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "decoded body too large"})
			}
			m.logger.WithFields(logrus.Fields{
				"error":    err.Error(),
				"encoding": encoding,
			}).Debug("failed to decode request body")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed compressed body"})
		}
		if changed {
			c.Request().SetBodyRaw(body)
			c.Request().Header.Del(fiber.HeaderContentEncoding)
		}
		return c.Next()
	}
}
