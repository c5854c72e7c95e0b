package http

import (
	"github.com/NeuralTrust/PrivacyGuard/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type getVersionHandler struct{}

func NewGetVersionHandler() Handler {
	return &getVersionHandler{}
}

// Handle @Summary Get PrivacyGuard version
// @Description Returns the current version of the service
// @Tags Version
// @Produce json
// @Success 200 {object} version.Info "Version information"
// @Router /version [get]
func (h *getVersionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(version.GetInfo())
}
