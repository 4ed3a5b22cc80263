package routes

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Health)
}
