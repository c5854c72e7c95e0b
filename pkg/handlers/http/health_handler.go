package http

import (
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/common"
	"github.com/gofiber/fiber/v2"
)

// ModelStatus reports whether the NER model answered its last call.
type ModelStatus interface {
	Available() bool
}

type healthHandler struct {
	model ModelStatus
}

// NewHealthHandler builds the health check. A nil model means NER detection
// is not configured and the service runs in limited (regex only) mode.
func NewHealthHandler(model ModelStatus) Handler {
	return &healthHandler{model: model}
}

// Handle @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	model := common.ModelStatusLimited
	if h.model != nil && h.model.Available() {
		model = common.ModelStatusAvailable
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
		"model":  model,
	})
}
