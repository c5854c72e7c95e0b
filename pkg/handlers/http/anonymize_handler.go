package http

import (
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type anonymizeHandler struct {
	logger     *logrus.Logger
	anonymizer *anonymizer.Anonymizer
	store      store.Store
}

// NewAnonymizeHandler builds the anonymize handler. The store may be nil, in
// which case no anonymization_id is issued.
func NewAnonymizeHandler(logger *logrus.Logger, a *anonymizer.Anonymizer, s store.Store) Handler {
	return &anonymizeHandler{
		logger:     logger,
		anonymizer: a,
		store:      s,
	}
}

// Handle @Summary Anonymize text
// @Description Replaces detected PII with placeholders and returns the entity list needed to reverse it
// @Tags Anonymization
// @Accept json
// @Produce json
// @Param request body request.AnonymizeRequest true "Text to anonymize"
// @Success 200 {object} response.AnonymizeResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/anonymize [post]
func (h *anonymizeHandler) Handle(c *fiber.Ctx) error {
	var req request.AnonymizeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("invalid anonymize request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.anonymizer.Anonymize(c.Context(), *req.Text)
	if err != nil {
		h.logger.WithError(err).Error("failed to anonymize text")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to anonymize text"})
	}

	resp := response.AnonymizeResponse{
		AnonymizedText: result.AnonymizedText,
		Entities:       result.Entities,
	}

	if h.store != nil {
		record := &store.Record{
			ID:             uuid.NewString(),
			AnonymizedText: result.AnonymizedText,
			Entities:       result.Entities,
			CreatedAt:      time.Now().UTC(),
		}
		if err := h.store.Save(c.Context(), record); err != nil {
			h.logger.WithFields(logrus.Fields{
				"error": err.Error(),
				"id":    record.ID,
			}).Error("failed to store anonymization")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store anonymization"})
		}
		resp.AnonymizationID = record.ID
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
