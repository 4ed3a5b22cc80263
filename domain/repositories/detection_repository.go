package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"faceregistry/domain/models"
)

// PersonAggregate is a per-person rollup computed from the detection
// history, used by the consistency audit.
type PersonAggregate struct {
	PersonID      uuid.UUID
	Detections    int64
	ConfidenceSum float64
}

type DetectionRepository interface {
	// GetByFingerprint returns the prior detection with the identical
	// content digest, or nil when none exists
	GetByFingerprint(ctx context.Context, fingerprint string) (*models.Detection, error)

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// AggregatesByPerson recomputes detection counts and confidence sums
	// from the raw history, grouped by person
	AggregatesByPerson(ctx context.Context) ([]PersonAggregate, error)
}
