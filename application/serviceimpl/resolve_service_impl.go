package serviceimpl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
	"faceregistry/domain/services"
	"faceregistry/infrastructure/storage"
	"faceregistry/pkg/fingerprint"
	"faceregistry/pkg/logger"
)

type ResolveServiceImpl struct {
	personRepo    repositories.PersonRepository
	detectionRepo repositories.DetectionRepository
	galleryRepo   repositories.GalleryRepository
	analyzer      services.FaceAnalyzer
	refStore      storage.ReferenceStore
	statsCache    services.StatsCache

	defaultThreshold float64

	// registerMu serializes the final decision/commit step of new-person
	// registration. It is never held across the face analysis or the full
	// gallery scan, only around the delta re-check and the commit.
	registerMu sync.Mutex
}

func NewResolveService(
	personRepo repositories.PersonRepository,
	detectionRepo repositories.DetectionRepository,
	galleryRepo repositories.GalleryRepository,
	analyzer services.FaceAnalyzer,
	refStore storage.ReferenceStore,
	statsCache services.StatsCache,
	defaultThreshold float64,
) services.ResolveService {
	return &ResolveServiceImpl{
		personRepo:       personRepo,
		detectionRepo:    detectionRepo,
		galleryRepo:      galleryRepo,
		analyzer:         analyzer,
		refStore:         refStore,
		statsCache:       statsCache,
		defaultThreshold: defaultThreshold,
	}
}

// ResolveOrRegister runs the decision pipeline for one probe image:
// duplicate short-circuit, face analysis, gallery matching, then update or
// register. The transition order is strict; a no-face or multiple-faces
// outcome never reaches the matcher or mutates the gallery.
func (s *ResolveServiceImpl) ResolveOrRegister(ctx context.Context, image []byte, threshold float64) (*services.ResolveOutcome, error) {
	if threshold == 0 {
		threshold = s.defaultThreshold
	}
	if threshold <= 0 || threshold > 1 {
		return nil, services.ErrInvalidThreshold
	}

	digest := fingerprint.Compute(image)

	// Exact-duplicate check first: cheapest, avoids face analysis entirely
	prior, err := s.detectionRepo.GetByFingerprint(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}
	if prior != nil {
		return s.duplicateOutcome(ctx, prior)
	}

	analysis, err := s.analyzer.Describe(ctx, image)
	if err != nil {
		// Adapters soft-fail internally; an error here is still treated as
		// an unanalyzable image, per the soft-failure policy
		logger.FaceWarn("describe_error", "Describe returned an error, treating as no face", map[string]interface{}{
			"error": err.Error(),
		})
		analysis = &services.FaceAnalysis{FaceCount: 0}
	}

	switch {
	case analysis.FaceCount == 0:
		return &services.ResolveOutcome{Status: services.StatusNoFace}, nil
	case analysis.FaceCount > 1:
		return &services.ResolveOutcome{
			Status:    services.StatusMultipleFaces,
			FaceCount: analysis.FaceCount,
		}, nil
	}

	persons, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("gallery scan failed: %w", err)
	}

	m := &matcher{analyzer: s.analyzer, refStore: s.refStore}
	match := m.findBestMatch(ctx, image, persons, threshold)

	if match.Found {
		return s.recordRecognition(ctx, match.Person.ID, match.Confidence, match.HighestSeen, digest, analysis.Description)
	}

	// No qualifying match. Serialize the final decision so two concurrent
	// probes of the same new person cannot both register. Under the lock,
	// re-check only persons that appeared since the scan snapshot; if a
	// concurrent registration just landed, fall back to a recognition.
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	scanned := make(map[uuid.UUID]struct{}, len(persons))
	for i := range persons {
		scanned[persons[i].ID] = struct{}{}
	}

	current, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("gallery re-check failed: %w", err)
	}

	var delta []models.Person
	for i := range current {
		if _, ok := scanned[current[i].ID]; !ok {
			delta = append(delta, current[i])
		}
	}

	highestSeen := match.HighestSeen
	if len(delta) > 0 {
		deltaMatch := m.findBestMatch(ctx, image, delta, threshold)
		if deltaMatch.HighestSeen > highestSeen {
			highestSeen = deltaMatch.HighestSeen
		}
		if deltaMatch.Found {
			return s.recordRecognition(ctx, deltaMatch.Person.ID, deltaMatch.Confidence, highestSeen, digest, analysis.Description)
		}
	}

	return s.registerNewPerson(ctx, image, digest, highestSeen, analysis.Description)
}

func (s *ResolveServiceImpl) duplicateOutcome(ctx context.Context, prior *models.Detection) (*services.ResolveOutcome, error) {
	outcome := &services.ResolveOutcome{
		Status:     services.StatusExactDuplicate,
		SeenBefore: true,
		PersonID:   prior.PersonID,
		Confidence: prior.Confidence,
	}

	person, err := s.personRepo.GetByID(ctx, prior.PersonID)
	if err != nil {
		// The attribution stands even if the person row is momentarily
		// unreadable; return what the detection itself carries
		logger.GalleryWarn("duplicate_person_lookup", "Could not load person for duplicate probe", map[string]interface{}{
			"person_id": prior.PersonID.String(),
			"error":     err.Error(),
		})
		return outcome, nil
	}

	outcome.PersonCode = person.Code
	outcome.FirstSeen = &person.FirstSeen
	outcome.TotalDetections = person.TotalDetections
	outcome.ConfidenceAvg = person.ConfidenceAvg

	logger.Gallery("exact_duplicate", "Probe is an exact duplicate of a prior submission", map[string]interface{}{
		"person_code": person.Code,
	})
	return outcome, nil
}

func (s *ResolveServiceImpl) recordRecognition(ctx context.Context, personID uuid.UUID, confidence, highestSeen float64, digest string, desc *services.FaceDescription) (*services.ResolveOutcome, error) {
	detection := &models.Detection{
		DetectedAt:       time.Now(),
		Confidence:       confidence,
		ImageFingerprint: digest,
	}
	applySnapshot(detection, desc)

	person, err := s.galleryRepo.RecordRecognition(ctx, personID, detection)
	if err != nil {
		// Deliberate policy: the whole request fails cleanly and can be
		// retried; no recognized-but-stats-stale partial success
		return nil, fmt.Errorf("failed to record recognition: %w", err)
	}

	s.invalidateStats(ctx)

	logger.Gallery("person_recognized", "Probe matched an enrolled person", map[string]interface{}{
		"person_code":      person.Code,
		"confidence":       confidence,
		"total_detections": person.TotalDetections,
	})

	return &services.ResolveOutcome{
		Status:          services.StatusPersonRecognized,
		SeenBefore:      true,
		PersonID:        person.ID,
		PersonCode:      person.Code,
		Confidence:      confidence,
		HighestSeen:     highestSeen,
		FirstSeen:       &person.FirstSeen,
		TotalDetections: person.TotalDetections,
		ConfidenceAvg:   person.ConfidenceAvg,
		Description:     desc,
	}, nil
}

func (s *ResolveServiceImpl) registerNewPerson(ctx context.Context, image []byte, digest string, highestSeen float64, desc *services.FaceDescription) (*services.ResolveOutcome, error) {
	code := generatePersonCode()

	refPath, err := s.refStore.Save(code, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store reference image: %w", err)
	}

	now := time.Now()
	person := &models.Person{
		Code:               code,
		FirstSeen:          now,
		LastSeen:           now,
		TotalDetections:    1,
		ConfidenceAvg:      0,
		GenderEstimate:     dominantOrUnknown(desc),
		ReferenceImagePath: refPath,
	}
	if desc != nil {
		person.AgeEstimate = desc.Age
	}

	detection := &models.Detection{
		DetectedAt:       now,
		Confidence:       models.RegistrationConfidence,
		ImageFingerprint: digest,
	}
	applySnapshot(detection, desc)

	if err := s.galleryRepo.RegisterPerson(ctx, person, detection); err != nil {
		// The reference image is scoped to the registration; remove it so a
		// failed transaction leaves nothing behind
		if cleanupErr := s.refStore.Delete(refPath); cleanupErr != nil {
			logger.GalleryWarn("reference_cleanup", "Could not remove reference image after failed registration", map[string]interface{}{
				"path":  refPath,
				"error": cleanupErr.Error(),
			})
		}
		return nil, fmt.Errorf("failed to register person: %w", err)
	}

	s.invalidateStats(ctx)

	logger.Gallery("person_registered", "New person auto-registered", map[string]interface{}{
		"person_code":  code,
		"highest_seen": highestSeen,
	})

	return &services.ResolveOutcome{
		Status:          services.StatusNewPersonRegistered,
		SeenBefore:      false,
		PersonID:        person.ID,
		PersonCode:      code,
		HighestSeen:     highestSeen,
		FirstSeen:       &person.FirstSeen,
		TotalDetections: 1,
		Description:     desc,
	}, nil
}

func (s *ResolveServiceImpl) invalidateStats(ctx context.Context) {
	if s.statsCache != nil {
		s.statsCache.Del(ctx, galleryStatsCacheKey)
	}
}

// generatePersonCode assigns a fresh unique label. Codes are derived from a
// random UUID, so collisions are negligible; the unique constraint on the
// column backstops the remaining probability.
func generatePersonCode() string {
	return "PERSON_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func applySnapshot(detection *models.Detection, desc *services.FaceDescription) {
	detection.GenderDetected = "unknown"
	detection.EmotionDetected = "unknown"
	if desc == nil {
		return
	}
	detection.AgeDetected = desc.Age
	if desc.Gender != "" {
		detection.GenderDetected = desc.Gender
	}
	if desc.Emotion != "" {
		detection.EmotionDetected = desc.Emotion
	}
}

func dominantOrUnknown(desc *services.FaceDescription) string {
	if desc == nil || desc.Gender == "" {
		return "unknown"
	}
	return desc.Gender
}
