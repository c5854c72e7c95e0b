package router

import (
	"github.com/NeuralTrust/PrivacyGuard/pkg/config"
	handlers "github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http"
	"github.com/NeuralTrust/PrivacyGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	IndexPath       = "/"
	StaticPath      = "/static"
	HealthPath      = "/health"
	VersionPath     = "/version"
	SwaggerJSONPath = "/swagger.json"
	DocsPath        = "/docs/*"
	AnonymizePath   = "/anonymize"
	DeanonymizePath = "/deanonymize"
)

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	cfg                 *config.Config
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	cfg *config.Config,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		cfg:                 cfg,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	if middlewares := r.middlewareTransport.GetMiddlewares(); len(middlewares) > 0 {
		router.Use(middlewares...)
	}

	router.Get(IndexPath, handlerTransport.IndexHandler.Handle)
	router.Static(StaticPath, r.cfg.Server.StaticDir)
	router.Get(HealthPath, handlerTransport.HealthHandler.Handle)
	router.Get(VersionPath, handlerTransport.GetVersionHandler.Handle)

	router.Static(SwaggerJSONPath, "./docs/swagger.json")
	router.Get(DocsPath, swagger.New(swagger.Config{
		URL: r.cfg.Server.DocsURL,
	}))

	// Unversioned paths kept for existing clients
	router.Post(AnonymizePath, handlerTransport.AnonymizeHandler.Handle)
	router.Post(DeanonymizePath, handlerTransport.DeanonymizeHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		v1.Post(AnonymizePath, handlerTransport.AnonymizeHandler.Handle)
		v1.Post(DeanonymizePath, handlerTransport.DeanonymizeHandler.Handle)
		v1.Get("/entities", handlerTransport.ListEntitiesHandler.Handle)

		anonymizations := v1.Group("/anonymizations")
		{
			anonymizations.Get("/:id", handlerTransport.GetAnonymizationHandler.Handle)
			anonymizations.Delete("/:id", handlerTransport.DeleteAnonymizationHandler.Handle)
		}
	}
	return nil
}
