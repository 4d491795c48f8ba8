package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the experiment resource behind the identity
// middleware; no handler here runs without a resolved user.
func RegisterRoutes(app *fiber.App, h *ExperimentHandler, requireAuth fiber.Handler) {
	experiments := app.Group("/experiments", requireAuth)
	experiments.Get("/", h.List)
	experiments.Get("/:id", h.Get)
	experiments.Post("/", h.Create)
	experiments.Put("/:id", h.Update)
	experiments.Delete("/:id", h.Delete)
}
