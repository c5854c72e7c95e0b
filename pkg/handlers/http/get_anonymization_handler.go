package http

import (
	"errors"

	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getAnonymizationHandler struct {
	logger *logrus.Logger
	store  store.Store
}

func NewGetAnonymizationHandler(logger *logrus.Logger, s store.Store) Handler {
	return &getAnonymizationHandler{
		logger: logger,
		store:  s,
	}
}

// Handle @Summary Get a stored anonymization
// @Tags Anonymization
// @Produce json
// @Param id path string true "Anonymization ID"
// @Success 200 {object} response.AnonymizationOutput
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 501 {object} response.ErrorResponse
// @Router /api/v1/anonymizations/{id} [get]
func (h *getAnonymizationHandler) Handle(c *fiber.Ctx) error {
	if h.store == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "anonymization store is not configured"})
	}
	id := c.Params("id")
	if err := uuid.Validate(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid anonymization id"})
	}

	record, err := h.store.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to get anonymization")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get anonymization"})
	}
	return c.Status(fiber.StatusOK).JSON(response.NewAnonymizationOutput(record))
}
