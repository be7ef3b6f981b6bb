package admin

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes is the single entry point for setting up the admin CRUD
// routes. The caller supplies the admin-gate middleware so this router
// creates nothing.
func RegisterRoutes(app *fiber.App, handler *Handler, gate fiber.Handler) {
	group := app.Group("/admin", gate)

	group.Get("/:resource", handler.List)
	group.Post("/:resource", handler.Create)
	group.Put("/:resource/:id", handler.Update)
	group.Delete("/:resource/:id", handler.Delete)
}
