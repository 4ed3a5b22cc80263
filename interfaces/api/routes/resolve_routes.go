package routes

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/interfaces/api/handlers"
)

func SetupResolveRoutes(router fiber.Router, h *handlers.Handlers) {
	// The resolve endpoint is the public surface: no auth, anyone may probe
	router.Post("/resolve", h.Resolve.ResolveOrRegister)
}
