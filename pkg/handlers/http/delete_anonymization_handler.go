package http

import (
	"errors"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deleteAnonymizationHandler struct {
	logger *logrus.Logger
	store  store.Store
}

func NewDeleteAnonymizationHandler(logger *logrus.Logger, s store.Store) Handler {
	return &deleteAnonymizationHandler{
		logger: logger,
		store:  s,
	}
}

// Handle @Summary Delete a stored anonymization
// @Tags Anonymization
// @Param id path string true "Anonymization ID"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 501 {object} response.ErrorResponse
// @Router /api/v1/anonymizations/{id} [delete]
func (h *deleteAnonymizationHandler) Handle(c *fiber.Ctx) error {
	if h.store == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "anonymization store is not configured"})
	}
	id := c.Params("id")
	if err := uuid.Validate(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid anonymization id"})
	}
	if err := h.store.Delete(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to delete anonymization")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete anonymization"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
