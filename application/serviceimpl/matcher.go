package serviceimpl

import (
	"context"

	"faceregistry/domain/models"
	"faceregistry/domain/services"
	"faceregistry/infrastructure/storage"
	"faceregistry/pkg/logger"
)

// matchResult is the outcome of one gallery scan.
type matchResult struct {
	Found      bool
	Person     *models.Person
	Confidence float64

	// HighestSeen is the best verified confidence across the whole scan,
	// tracked independently of the threshold for near-miss reporting.
	HighestSeen float64
}

// matcher performs the linear best-match search over the gallery. Gallery
// sizes are assumed small enough that O(n) pairwise comparisons against the
// external service are acceptable; this is the place an embedding index
// would go at larger scale.
type matcher struct {
	analyzer services.FaceAnalyzer
	refStore storage.ReferenceStore
}

// findBestMatch compares the probe against every person's reference image.
// A candidate with a missing reference image or a failed comparison is
// skipped without affecting the others. The final result is found only when
// the best verified confidence meets or exceeds threshold*100 (inclusive).
func (m *matcher) findBestMatch(ctx context.Context, probe []byte, persons []models.Person, threshold float64) *matchResult {
	result := &matchResult{}

	for i := range persons {
		person := &persons[i]

		reference, err := m.refStore.Load(person.ReferenceImagePath)
		if err != nil {
			logger.GalleryWarn("reference_unreadable", "Skipping candidate with unreadable reference image", map[string]interface{}{
				"person_code": person.Code,
				"path":        person.ReferenceImagePath,
				"error":       err.Error(),
			})
			continue
		}

		similarity, err := m.analyzer.Compare(ctx, probe, reference)
		if err != nil {
			logger.FaceWarn("compare_failed", "Skipping candidate after comparison failure", map[string]interface{}{
				"person_code": person.Code,
				"error":       err.Error(),
			})
			continue
		}

		if !similarity.Verified {
			continue
		}

		confidence := similarity.Confidence()
		if confidence > result.HighestSeen {
			result.HighestSeen = confidence
			result.Person = person
			result.Confidence = confidence
		}
	}

	if result.Person != nil && result.Confidence >= threshold*100 {
		result.Found = true
	}

	return result
}
