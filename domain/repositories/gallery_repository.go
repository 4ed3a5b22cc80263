package repositories

import (
	"context"

	"github.com/google/uuid"

	"faceregistry/domain/models"
)

// GalleryRepository owns the two mutating operations of the gallery. Both
// are single transactions: either fully applied or fully rolled back, with
// no partial state visible to concurrent readers.
type GalleryRepository interface {
	// RegisterPerson creates a person row and its initiating detection as
	// one atomic unit. The assigned identifiers are filled in on return.
	RegisterPerson(ctx context.Context, person *models.Person, detection *models.Detection) error

	// RecordRecognition appends a detection for an existing person and
	// advances the person's running statistics in a single atomic
	// read-modify-write. It returns the person as updated.
	RecordRecognition(ctx context.Context, personID uuid.UUID, detection *models.Detection) (*models.Person, error)
}
