package http

import (
	"errors"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deanonymizeHandler struct {
	logger     *logrus.Logger
	anonymizer *anonymizer.Anonymizer
	store      store.Store
}

func NewDeanonymizeHandler(logger *logrus.Logger, a *anonymizer.Anonymizer, s store.Store) Handler {
	return &deanonymizeHandler{
		logger:     logger,
		anonymizer: a,
		store:      s,
	}
}

// Handle @Summary Deanonymize text
// @Description Restores the original values from an entity list or a stored anonymization_id
// @Tags Anonymization
// @Accept json
// @Produce json
// @Param request body request.DeanonymizeRequest true "Anonymized text and its reversal data"
// @Success 200 {object} response.DeanonymizeResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Failure 501 {object} response.ErrorResponse
// @Router /api/v1/deanonymize [post]
func (h *deanonymizeHandler) Handle(c *fiber.Ctx) error {
	var req request.DeanonymizeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("invalid deanonymize request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entities := req.EntityList()
	if req.AnonymizationID != "" {
		if h.store == nil {
			return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "anonymization store is not configured"})
		}
		record, err := h.store.Get(c.Context(), req.AnonymizationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			h.logger.WithFields(logrus.Fields{
				"error": err.Error(),
				"id":    req.AnonymizationID,
			}).Error("failed to load anonymization")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load anonymization"})
		}
		entities = record.Entities
	}

	original, err := h.anonymizer.Deanonymize(c.Context(), *req.Text, entities)
	if err != nil {
		h.logger.WithError(err).Error("failed to deanonymize text")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(response.DeanonymizeResponse{OriginalText: original})
}
