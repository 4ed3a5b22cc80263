package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"faceregistry/domain/models"
)

// MostSeenPerson identifies the gallery entry with the most detections.
type MostSeenPerson struct {
	Code       string `json:"person_code"`
	Detections int64  `json:"detection_count"`
}

// GalleryStats summarizes the current gallery.
type GalleryStats struct {
	TotalPersons      int64           `json:"total_persons"`
	TotalDetections   int64           `json:"total_detections"`
	DetectionsLastDay int64           `json:"detections_last_day"`
	MostSeen          *MostSeenPerson `json:"most_seen_person"`
}

// AggregateDrift reports a person whose cached aggregates no longer match
// the aggregate recomputed from their detection history.
type AggregateDrift struct {
	PersonID            uuid.UUID `json:"person_id"`
	Code                string    `json:"person_code"`
	StoredDetections    int64     `json:"stored_detections"`
	ActualDetections    int64     `json:"actual_detections"`
	StoredConfidenceAvg float64   `json:"stored_confidence_avg"`
	ActualConfidenceAvg float64   `json:"actual_confidence_avg"`
}

// StatsCache is a small read-through cache for gallery statistics. Cache
// failures must degrade to direct queries, never to request failures.
type StatsCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, key string)
}

// GalleryService exposes the read-only reporting surface plus the
// consistency audit over the persisted gallery.
type GalleryService interface {
	// ListPersons returns person summaries ordered most-recently-seen first.
	ListPersons(ctx context.Context, page, limit int) ([]models.Person, int64, error)

	// Statistics returns gallery-wide counters.
	Statistics(ctx context.Context) (*GalleryStats, error)

	// AuditAggregates recomputes per-person aggregates from the detection
	// history and returns every person whose stored values drifted.
	AuditAggregates(ctx context.Context) ([]AggregateDrift, error)
}
