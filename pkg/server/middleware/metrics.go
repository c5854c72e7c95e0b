package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{
		logger: logger,
	}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		nextErr := c.Next()

		status := c.Response().StatusCode()
		if nextErr != nil {
			var fiberErr *fiber.Error
			if errors.As(nextErr, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route path keeps the label set bounded (":id" instead of the value).
		path := c.Route().Path
		prometheus.RequestTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		if prometheus.Config.EnableLatency {
			elapsed := float64(time.Since(startTime).Microseconds()) / 1000
			prometheus.RequestLatency.WithLabelValues(path).Observe(elapsed)
		}

		m.logger.WithFields(logrus.Fields{
			"method":   c.Method(),
			"path":     path,
			"status":   status,
			"duration": time.Since(startTime).String(),
		}).Debug("request processed")

		return nextErr
	}
}
