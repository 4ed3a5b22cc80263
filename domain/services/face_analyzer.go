package services

import "context"

// AttributeScores maps a categorical label (e.g. "happy", "Woman") to the
// analyzer's score for it, in percent.
type AttributeScores map[string]float64

// FaceDescription is the fixed, well-typed schema of a single analyzed face.
// All coercion from the raw analysis payload happens once, at the adapter
// edge, before a description reaches the decision pipeline.
type FaceDescription struct {
	Age           *int            `json:"age"`
	Gender        string          `json:"gender"`
	GenderScores  AttributeScores `json:"gender_scores,omitempty"`
	Emotion       string          `json:"emotion"`
	EmotionScores AttributeScores `json:"emotion_scores,omitempty"`
	Race          string          `json:"race"`
	RaceScores    AttributeScores `json:"race_scores,omitempty"`
}

// FaceAnalysis is the outcome of describing a probe image. FaceCount of 0
// covers both "no face found" and "image could not be analyzed"; the
// pipeline treats an unanalyzable image as a soft no-face outcome.
// Description is set only when exactly one face was found.
type FaceAnalysis struct {
	FaceCount   int
	Description *FaceDescription
}

// SimilarityResult is the outcome of a pairwise face comparison.
type SimilarityResult struct {
	Verified bool
	Distance float64 // dissimilarity in [0,1]
}

// Confidence derives the match confidence from the distance.
func (r *SimilarityResult) Confidence() float64 {
	return (1 - r.Distance) * 100
}

// FaceAnalyzer wraps the external face-analysis capability. Implementations
// must map internal analysis failures of Describe to a zero-face result
// rather than an error; Compare errors are per-candidate and skippable.
type FaceAnalyzer interface {
	Describe(ctx context.Context, image []byte) (*FaceAnalysis, error)
	Compare(ctx context.Context, probe, reference []byte) (*SimilarityResult, error)
}
