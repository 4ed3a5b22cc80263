package routes

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/interfaces/api/handlers"
	"faceregistry/interfaces/api/middleware"
	"faceregistry/pkg/config"
)

func SetupGalleryRoutes(router fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	gallery := router.Group("/gallery")

	// Read-only reporting surface, token-protected
	gallery.Use(middleware.Protected(cfg.JWT.Secret))

	gallery.Get("/persons", h.Gallery.ListPersons)
	gallery.Get("/stats", h.Gallery.Statistics)
	gallery.Get("/audit", h.Gallery.Audit)
}
