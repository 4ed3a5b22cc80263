package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a gallery entry created by auto-registration. The code is a
// stable human-readable label, unique across the gallery.
type Person struct {
	ID   uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code string    `gorm:"uniqueIndex;not null"`

	FirstSeen time.Time `gorm:"not null"`
	LastSeen  time.Time `gorm:"not null;index"`

	// Aggregates kept in sync with the detection history. TotalDetections
	// starts at 1 (the registering detection); ConfidenceAvg excludes the
	// initial registration, which counts as 100.
	TotalDetections int64   `gorm:"not null;default:1"`
	ConfidenceAvg   float64 `gorm:"not null;default:0"`

	// Snapshot from the registering detection, never updated afterwards
	AgeEstimate    *int
	GenderEstimate string

	// Canonical image used for future comparisons
	ReferenceImagePath string `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Detections []Detection `gorm:"foreignKey:PersonID"`
}

func (Person) TableName() string {
	return "persons"
}
