package handlers

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/domain/models"
	"faceregistry/domain/services"
	"faceregistry/pkg/utils"
)

type GalleryHandler struct {
	galleryService services.GalleryService
}

func NewGalleryHandler(galleryService services.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

// PersonSummary is the list representation of an enrolled person
type PersonSummary struct {
	PersonCode      string  `json:"person_code"`
	FirstSeen       string  `json:"first_seen"`
	LastSeen        string  `json:"last_seen"`
	TotalDetections int64   `json:"total_detections"`
	AvgConfidence   float64 `json:"avg_confidence"`
	EstimatedAge    *int    `json:"estimated_age"`
	EstimatedGender string  `json:"estimated_gender"`
}

// ListPersons returns enrolled persons, most recently seen first
func (h *GalleryHandler) ListPersons(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	persons, total, err := h.galleryService.ListPersons(c.Context(), page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list persons", err)
	}

	summaries := make([]PersonSummary, len(persons))
	for i, p := range persons {
		summaries[i] = toSummary(p)
	}

	return utils.SuccessResponse(c, "Persons retrieved", fiber.Map{
		"total_persons": total,
		"persons":       summaries,
	})
}

// Statistics returns gallery-wide counters
func (h *GalleryHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.galleryService.Statistics(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute statistics", err)
	}

	return utils.SuccessResponse(c, "Statistics retrieved", stats)
}

// Audit recomputes person aggregates from the detection history and
// reports any drift
func (h *GalleryHandler) Audit(c *fiber.Ctx) error {
	drifts, err := h.galleryService.AuditAggregates(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Audit failed", err)
	}

	return utils.SuccessResponse(c, "Audit complete", fiber.Map{
		"consistent":  len(drifts) == 0,
		"drift_count": len(drifts),
		"drifts":      drifts,
	})
}

func toSummary(p models.Person) PersonSummary {
	return PersonSummary{
		PersonCode:      p.Code,
		FirstSeen:       p.FirstSeen.Format("2006-01-02T15:04:05Z07:00"),
		LastSeen:        p.LastSeen.Format("2006-01-02T15:04:05Z07:00"),
		TotalDetections: p.TotalDetections,
		AvgConfidence:   round2(p.ConfidenceAvg),
		EstimatedAge:    p.AgeEstimate,
		EstimatedGender: p.GenderEstimate,
	}
}
