package handlers

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/infrastructure/faceapi"
	"faceregistry/pkg/utils"
)

type HealthHandler struct {
	faceClient *faceapi.FaceClient
}

func NewHealthHandler(faceClient *faceapi.FaceClient) *HealthHandler {
	return &HealthHandler{
		faceClient: faceClient,
	}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Face registry is running", fiber.Map{
		"description": "Upload an image and the service reports whether the person was seen before, or registers them automatically",
	})
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	faceAPIUp := false
	if h.faceClient != nil {
		faceAPIUp = h.faceClient.IsAvailable(c.Context())
	}

	return utils.SuccessResponse(c, "OK", fiber.Map{
		"status":             "ok",
		"face_api_available": faceAPIUp,
	})
}
