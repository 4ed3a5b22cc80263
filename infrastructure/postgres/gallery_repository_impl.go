package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
)

type GalleryRepositoryImpl struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) repositories.GalleryRepository {
	return &GalleryRepositoryImpl{db: db}
}

// RegisterPerson inserts the person and its initiating detection in one
// transaction. A person row must never exist without at least one detection.
func (r *GalleryRepositoryImpl) RegisterPerson(ctx context.Context, person *models.Person, detection *models.Detection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(person).Error; err != nil {
			return fmt.Errorf("failed to create person: %w", err)
		}

		detection.PersonID = person.ID
		if err := tx.Create(detection).Error; err != nil {
			return fmt.Errorf("failed to create initiating detection: %w", err)
		}

		return nil
	})
}

// RecordRecognition appends the detection and advances the person's
// statistics in one transaction. The UPDATE is a single statement whose
// column references evaluate against the pre-update row, so the running
// average uses the old detection count and concurrent recognitions of the
// same person cannot lose updates.
func (r *GalleryRepositoryImpl) RecordRecognition(ctx context.Context, personID uuid.UUID, detection *models.Detection) (*models.Person, error) {
	var person models.Person

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detection.PersonID = personID
		if err := tx.Create(detection).Error; err != nil {
			return fmt.Errorf("failed to create detection: %w", err)
		}

		result := tx.Model(&models.Person{}).
			Where("id = ?", personID).
			Updates(map[string]interface{}{
				"total_detections": gorm.Expr("total_detections + 1"),
				"confidence_avg":   gorm.Expr("(confidence_avg * total_detections + ?) / (total_detections + 1)", detection.Confidence),
				"last_seen":        detection.DetectedAt,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update person statistics: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", personID).First(&person).Error
	})
	if err != nil {
		return nil, err
	}

	return &person, nil
}
