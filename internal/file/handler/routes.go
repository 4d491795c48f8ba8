package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *FileHandler, requireAuth fiber.Handler) {
	file := app.Group("/file", requireAuth)
	file.Post("/", h.Upload)
	file.Get("/download", h.Download)
}
