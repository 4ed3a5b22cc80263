package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"faceregistry/domain/services"
	"faceregistry/pkg/utils"
)

const maxUploadSize = 10 * 1024 * 1024

type ResolveHandler struct {
	resolveService services.ResolveService
}

func NewResolveHandler(resolveService services.ResolveService) *ResolveHandler {
	return &ResolveHandler{
		resolveService: resolveService,
	}
}

// ResolveRequest carries the optional per-call knobs of a resolve request
type ResolveRequest struct {
	Threshold float64 `validate:"omitempty,gt=0,lte=1"`
}

// ResolveOrRegister answers whether the uploaded face was seen before and
// auto-registers the person when it was not.
func (h *ResolveHandler) ResolveOrRegister(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Image file is required", err)
	}

	if file.Size > maxUploadSize {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds 10MB limit", nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File must be an image (jpeg, png, webp)", nil)
	}

	req := ResolveRequest{}
	if raw := c.FormValue("threshold", c.Query("threshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Threshold must be a number", err)
		}
		req.Threshold = threshold
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Threshold must be in (0,1]", err)
	}

	f, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read file", err)
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read file", err)
	}

	outcome, err := h.resolveService.ResolveOrRegister(c.Context(), image, req.Threshold)
	if err != nil {
		if errors.Is(err, services.ErrInvalidThreshold) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Threshold must be in (0,1]", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Processing failed", err)
	}

	return utils.SuccessResponse(c, outcomeMessage(outcome), outcomePayload(outcome))
}

func outcomeMessage(o *services.ResolveOutcome) string {
	switch o.Status {
	case services.StatusExactDuplicate:
		return "This exact same image was processed before"
	case services.StatusNoFace:
		return "No face detected in the image"
	case services.StatusMultipleFaces:
		return fmt.Sprintf("Multiple faces detected (%d). Please use an image with a single person.", o.FaceCount)
	case services.StatusPersonRecognized:
		return fmt.Sprintf("Person recognized! Seen %d times before.", o.TotalDetections)
	case services.StatusNewPersonRegistered:
		return fmt.Sprintf("New person automatically registered as %q", o.PersonCode)
	default:
		return "Processed"
	}
}

func outcomePayload(o *services.ResolveOutcome) fiber.Map {
	payload := fiber.Map{
		"status":      o.Status,
		"seen_before": o.SeenBefore,
	}

	switch o.Status {
	case services.StatusExactDuplicate:
		payload["person_id"] = o.PersonID.String()
		if o.PersonCode != "" {
			payload["person_code"] = o.PersonCode
			payload["total_detections"] = o.TotalDetections
			payload["avg_confidence"] = round2(o.ConfidenceAvg)
		}
	case services.StatusMultipleFaces:
		payload["face_count"] = o.FaceCount
	case services.StatusPersonRecognized:
		payload["person_id"] = o.PersonID.String()
		payload["person_code"] = o.PersonCode
		payload["confidence"] = round2(o.Confidence)
		payload["highest_confidence"] = round2(o.HighestSeen)
		payload["first_seen"] = o.FirstSeen
		payload["total_detections"] = o.TotalDetections
		payload["avg_confidence"] = round2(o.ConfidenceAvg)
		payload["analysis"] = o.Description
	case services.StatusNewPersonRegistered:
		payload["person_id"] = o.PersonID.String()
		payload["person_code"] = o.PersonCode
		payload["highest_confidence"] = round2(o.HighestSeen)
		payload["analysis"] = o.Description
	}

	return payload
}

func isValidImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
