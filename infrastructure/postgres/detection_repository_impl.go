package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
)

type DetectionRepositoryImpl struct {
	db *gorm.DB
}

func NewDetectionRepository(db *gorm.DB) repositories.DetectionRepository {
	return &DetectionRepositoryImpl{db: db}
}

func (r *DetectionRepositoryImpl) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Detection, error) {
	var detection models.Detection
	err := r.db.WithContext(ctx).
		Where("image_fingerprint = ?", fingerprint).
		First(&detection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detection, nil
}

func (r *DetectionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Detection{}).Count(&count).Error
	return count, err
}

func (r *DetectionRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Detection{}).
		Where("detected_at > ?", since).
		Count(&count).Error
	return count, err
}

func (r *DetectionRepositoryImpl) AggregatesByPerson(ctx context.Context) ([]repositories.PersonAggregate, error) {
	var aggregates []repositories.PersonAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Detection{}).
		Select("person_id, COUNT(*) AS detections, COALESCE(SUM(confidence), 0) AS confidence_sum").
		Group("person_id").
		Scan(&aggregates).Error
	return aggregates, err
}
