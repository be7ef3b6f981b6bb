package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes is the single entry point for setting up auth routes.
// It accepts all its dependencies and creates nothing.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	group := app.Group("/auth")

	group.Get("/google/login", handler.GoogleLogin)
	group.Get("/google/callback", handler.GoogleCallback)
	group.Post("/logout", handler.Logout)
	group.Get("/session", handler.Session)
}
