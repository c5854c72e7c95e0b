package http

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

type indexHandler struct {
	staticDir string
}

// NewIndexHandler serves the demo page from staticDir/index.html.
func NewIndexHandler(staticDir string) Handler {
	return &indexHandler{staticDir: staticDir}
}

func (h *indexHandler) Handle(c *fiber.Ctx) error {
	page := filepath.Join(h.staticDir, "index.html")
	if info, err := os.Stat(page); err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "index.html not found"})
	}
	return c.SendFile(page)
}
