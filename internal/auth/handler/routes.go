package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/signin", h.Signin)
	auth.Get("/signin_token", h.RequireAuth, h.SigninToken)
	auth.Post("/logout", h.Logout)
}
