package kits

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gunplahub/api/kits/handlers"
)

// KitsHandlers holds all the handlers this router needs.
type KitsHandlers struct {
	KitHandler *handlers.KitHandler
}

// RegisterRoutes is the single entry point for setting up the public
// catalog routes. All of them are unauthenticated reads.
func RegisterRoutes(app *fiber.App, h *KitsHandlers) {
	group := app.Group("/kits")
	group.Get("/", h.KitHandler.ListKits)
	group.Get("/:kitId", h.KitHandler.GetKit)
	group.Get("/:kitId/related", h.KitHandler.GetRelated)

	app.Get("/filters", h.KitHandler.FilterOptions)
}
