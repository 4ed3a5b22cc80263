package repositories

import (
	"context"

	"github.com/google/uuid"

	"faceregistry/domain/models"
)

type PersonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error)

	// ListAll returns every enrolled person; the matcher scans this set
	ListAll(ctx context.Context) ([]models.Person, error)

	// ListByLastSeen returns persons ordered most-recently-seen first
	ListByLastSeen(ctx context.Context, offset, limit int) ([]models.Person, int64, error)

	Count(ctx context.Context) (int64, error)

	// MostSeen returns the person with the highest detection count, or nil
	// for an empty gallery
	MostSeen(ctx context.Context) (*models.Person, error)
}
