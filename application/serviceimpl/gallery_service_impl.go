package serviceimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
	"faceregistry/domain/services"
	"faceregistry/pkg/logger"
)

const galleryStatsCacheKey = "faceregistry:gallery:stats"

// aggregateTolerance bounds acceptable floating-point drift between the
// stored confidence average and the one recomputed from history.
const aggregateTolerance = 1e-6

type GalleryServiceImpl struct {
	personRepo    repositories.PersonRepository
	detectionRepo repositories.DetectionRepository
	statsCache    services.StatsCache
	statsTTL      time.Duration
}

func NewGalleryService(
	personRepo repositories.PersonRepository,
	detectionRepo repositories.DetectionRepository,
	statsCache services.StatsCache,
	statsTTL time.Duration,
) services.GalleryService {
	return &GalleryServiceImpl{
		personRepo:    personRepo,
		detectionRepo: detectionRepo,
		statsCache:    statsCache,
		statsTTL:      statsTTL,
	}
}

func (s *GalleryServiceImpl) ListPersons(ctx context.Context, page, limit int) ([]models.Person, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit
	return s.personRepo.ListByLastSeen(ctx, offset, limit)
}

func (s *GalleryServiceImpl) Statistics(ctx context.Context) (*services.GalleryStats, error) {
	if s.statsCache != nil {
		if cached, ok := s.statsCache.Get(ctx, galleryStatsCacheKey); ok {
			var stats services.GalleryStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.statsCache.Set(ctx, galleryStatsCacheKey, string(payload), s.statsTTL)
		}
	}

	return stats, nil
}

func (s *GalleryServiceImpl) computeStatistics(ctx context.Context) (*services.GalleryStats, error) {
	totalPersons, err := s.personRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count persons: %w", err)
	}

	totalDetections, err := s.detectionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	lastDay, err := s.detectionRepo.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent detections: %w", err)
	}

	stats := &services.GalleryStats{
		TotalPersons:      totalPersons,
		TotalDetections:   totalDetections,
		DetectionsLastDay: lastDay,
	}

	mostSeen, err := s.personRepo.MostSeen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find most seen person: %w", err)
	}
	if mostSeen != nil {
		stats.MostSeen = &services.MostSeenPerson{
			Code:       mostSeen.Code,
			Detections: mostSeen.TotalDetections,
		}
	}

	return stats, nil
}

// AuditAggregates verifies that every person's cached statistics match the
// aggregate recomputed from their detection history. The registering
// detection is always recorded at 100, so the expected average is
// (sum(confidence) - 100) / count. Drift is reported, not repaired.
func (s *GalleryServiceImpl) AuditAggregates(ctx context.Context) ([]services.AggregateDrift, error) {
	persons, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}

	aggregates, err := s.detectionRepo.AggregatesByPerson(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate detections: %w", err)
	}

	byPerson := make(map[string]repositories.PersonAggregate, len(aggregates))
	for _, agg := range aggregates {
		byPerson[agg.PersonID.String()] = agg
	}

	var drifts []services.AggregateDrift
	for i := range persons {
		person := &persons[i]
		agg := byPerson[person.ID.String()]

		actualAvg := 0.0
		if agg.Detections > 0 {
			actualAvg = (agg.ConfidenceSum - models.RegistrationConfidence) / float64(agg.Detections)
		}

		countMatches := person.TotalDetections == agg.Detections
		avgMatches := math.Abs(person.ConfidenceAvg-actualAvg) <= aggregateTolerance
		if countMatches && avgMatches {
			continue
		}

		drift := services.AggregateDrift{
			PersonID:            person.ID,
			Code:                person.Code,
			StoredDetections:    person.TotalDetections,
			ActualDetections:    agg.Detections,
			StoredConfidenceAvg: person.ConfidenceAvg,
			ActualConfidenceAvg: actualAvg,
		}
		drifts = append(drifts, drift)

		logger.GalleryWarn("aggregate_drift", "Person aggregates do not match detection history", map[string]interface{}{
			"person_code":        person.Code,
			"stored_detections":  drift.StoredDetections,
			"actual_detections":  drift.ActualDetections,
			"stored_confidence":  drift.StoredConfidenceAvg,
			"actual_confidence":  drift.ActualConfidenceAvg,
		})
	}

	return drifts, nil
}
