package routes

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/interfaces/api/handlers"
	"faceregistry/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api/v1")

	SetupResolveRoutes(api, h)
	SetupGalleryRoutes(api, h, cfg)
}
