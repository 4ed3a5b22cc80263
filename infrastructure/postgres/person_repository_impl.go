package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
)

type PersonRepositoryImpl struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) repositories.PersonRepository {
	return &PersonRepositoryImpl{db: db}
}

func (r *PersonRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepositoryImpl) ListAll(ctx context.Context) ([]models.Person, error) {
	var persons []models.Person
	err := r.db.WithContext(ctx).Find(&persons).Error
	return persons, err
}

func (r *PersonRepositoryImpl) ListByLastSeen(ctx context.Context, offset, limit int) ([]models.Person, int64, error) {
	var persons []models.Person
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Person{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("last_seen DESC").
		Offset(offset).
		Limit(limit).
		Find(&persons).Error

	return persons, total, err
}

func (r *PersonRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Person{}).Count(&count).Error
	return count, err
}

func (r *PersonRepositoryImpl) MostSeen(ctx context.Context) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).
		Order("total_detections DESC").
		First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}
