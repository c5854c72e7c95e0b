package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/common"
	"github.com/NeuralTrust/PrivacyGuard/pkg/config"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/PrivacyGuard/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

type Server interface {
	Run() error
	Shutdown() error
}

type BaseServer struct {
	Config         *config.Config
	Logger         *logrus.Logger
	Router         *fiber.App
	metricsApp     *fiber.App
	metricsStarted bool
}

func NewBaseServer(config *config.Config, logger *logrus.Logger) *BaseServer {
	bodyLimit := config.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = common.DefaultBodyLimit
	}

	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          jsonErrorHandler(logger),
	})
	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: config,
		Logger: logger,
		Router: r,
	}
}

// jsonErrorHandler renders errors that escape the handlers (unknown routes,
// oversized bodies) with the same {"error": ...} body the handlers use.
func jsonErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Error("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

func metricsHandler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Registry(), promhttp.HandlerOpts{}),
	)
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// setupMetricsEndpoint serves /metrics on its own port so scrapes never
// share the API listener.
func (s *BaseServer) setupMetricsEndpoint() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	if s.metricsStarted {
		return
	}
	s.metricsStarted = true

	s.metricsApp = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.metricsApp.Use(recover.New())
	s.metricsApp.Get(MetricsPath, metricsHandler())

	go func() {
		addr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
		s.Logger.WithField("addr", addr).Info("starting metrics server")
		if err := s.metricsApp.Listen(addr); err != nil {
			s.Logger.WithError(err).Error("metrics server stopped")
		}
	}()
}

func (s *BaseServer) shutdownMetrics() error {
	if s.metricsApp == nil {
		return nil
	}
	return s.metricsApp.Shutdown()
}
