package http

import (
	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
)

type listEntitiesHandler struct {
	anonymizer *anonymizer.Anonymizer
}

func NewListEntitiesHandler(a *anonymizer.Anonymizer) Handler {
	return &listEntitiesHandler{anonymizer: a}
}

// Handle @Summary List detectable entities
// @Description Labels the configured detectors can produce, with the detectors producing each
// @Tags Anonymization
// @Produce json
// @Success 200 {object} response.EntitiesResponse
// @Router /api/v1/entities [get]
func (h *listEntitiesHandler) Handle(c *fiber.Ctx) error {
	labels := h.anonymizer.Registry().Labels()
	if labels == nil {
		labels = []anonymizer.LabelInfo{}
	}
	return c.Status(fiber.StatusOK).JSON(response.EntitiesResponse{
		PlaceholderMode: string(h.anonymizer.PlaceholderMode()),
		Entities:        labels,
	})
}
