package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationConfidence is the confidence recorded for the detection that
// registers a new person. A person matched against their own probe image is
// definitionally a perfect match.
const RegistrationConfidence = 100.0

// Detection is an append-only event: one row per processed probe image that
// resolved to a person. Rows are immutable once written; the aggregate
// fields on Person must always be derivable from them.
type Detection struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PersonID uuid.UUID `gorm:"type:uuid;not null;index"`

	DetectedAt time.Time `gorm:"not null;index"`
	Confidence float64   `gorm:"not null"`

	// Content digest of the probe image; unique so the exact same bytes can
	// never be attributed twice, even under concurrent submissions.
	ImageFingerprint string `gorm:"uniqueIndex;not null"`

	// Attribute snapshot from this specific probe
	AgeDetected     *int
	GenderDetected  string
	EmotionDetected string

	Person Person `gorm:"foreignKey:PersonID"`
}

func (Detection) TableName() string {
	return "detections"
}
