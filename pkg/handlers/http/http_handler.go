package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(c *fiber.Ctx) error
}

type HandlerTransport interface {
	GetTransport() HandlerTransport
}

type HandlerTransportDTO struct {
	IndexHandler               Handler
	HealthHandler              Handler
	GetVersionHandler          Handler
	AnonymizeHandler           Handler
	DeanonymizeHandler         Handler
	GetAnonymizationHandler    Handler
	DeleteAnonymizationHandler Handler
	ListEntitiesHandler        Handler
}

func (t *HandlerTransportDTO) GetTransport() HandlerTransport {
	return t
}
