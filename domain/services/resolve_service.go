package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidThreshold is returned when a caller-supplied threshold is
// outside (0,1].
var ErrInvalidThreshold = errors.New("match threshold must be in (0,1]")

// OutcomeStatus discriminates the terminal states of a resolve request.
type OutcomeStatus string

const (
	StatusExactDuplicate      OutcomeStatus = "exact_duplicate"
	StatusNoFace              OutcomeStatus = "no_face"
	StatusMultipleFaces       OutcomeStatus = "multiple_faces"
	StatusPersonRecognized    OutcomeStatus = "person_recognized"
	StatusNewPersonRegistered OutcomeStatus = "new_person_registered"
)

// ResolveOutcome is the structured result of resolving one probe image.
// Soft outcomes (duplicate, no face, multiple faces) are values here, never
// errors; an error return means the request failed with no gallery mutation.
type ResolveOutcome struct {
	Status     OutcomeStatus
	SeenBefore bool

	// Person metadata, set for duplicate/recognized/registered outcomes
	PersonID   uuid.UUID
	PersonCode string

	// Match accounting
	Confidence      float64 // confidence of the accepted match
	HighestSeen     float64 // best verified confidence across the scan, threshold-independent
	FirstSeen       *time.Time
	TotalDetections int64
	ConfidenceAvg   float64

	// FaceCount is set for multiple_faces so callers can report it
	FaceCount int

	// Cleaned attribute snapshot from this probe's analysis
	Description *FaceDescription
}

// ResolveService is the identity-resolution and auto-registration pipeline:
// duplicate short-circuit, face analysis, gallery matching, then update or
// register.
type ResolveService interface {
	// ResolveOrRegister runs the full pipeline for one probe image.
	// A threshold of 0 selects the configured default.
	ResolveOrRegister(ctx context.Context, image []byte, threshold float64) (*ResolveOutcome, error)
}
