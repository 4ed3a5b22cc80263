package faceapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"faceregistry/domain/services"
	"faceregistry/pkg/logger"
)

// FaceClient communicates with a DeepFace-style analysis service. It
// implements services.FaceAnalyzer: Describe soft-fails to a zero-face
// result, Compare surfaces per-pair errors so the matcher can skip the
// candidate.
type FaceClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ services.FaceAnalyzer = (*FaceClient)(nil)

// AnalyzeRequest is the request to analyze facial attributes in an image
type AnalyzeRequest struct {
	Img     string   `json:"img"` // base64 encoded image
	Actions []string `json:"actions"`
}

// AnalyzeResult is one detected face's raw attribute payload
type AnalyzeResult struct {
	Age             *int               `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	Gender          map[string]float64 `json:"gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
	DominantRace    string             `json:"dominant_race"`
	Race            map[string]float64 `json:"race"`
}

// AnalyzeResponse is the response from attribute analysis, one entry per
// detected face
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
	Error   string          `json:"error,omitempty"`
}

// VerifyRequest is the request for a pairwise face comparison
type VerifyRequest struct {
	Img1 string `json:"img1"` // base64 encoded probe image
	Img2 string `json:"img2"` // base64 encoded reference image
}

// VerifyResponse is the response from a pairwise face comparison
type VerifyResponse struct {
	Verified bool    `json:"verified"`
	Distance float64 `json:"distance"`
	Error    string  `json:"error,omitempty"`
}

// HealthResponse is the response from health check
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

var analyzeActions = []string{"age", "gender", "emotion", "race"}

// NewFaceClient creates a new face API client. The timeout bounds every
// call so a stalled analysis service cannot hang a request indefinitely.
func NewFaceClient(baseURL string, timeout time.Duration) *FaceClient {
	return &FaceClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Describe analyzes the probe image and coerces the raw payload into the
// fixed description schema. Every analysis failure, including transport
// errors and timeouts, maps to a zero-face result: an unanalyzable image is
// a soft outcome, not a fatal condition.
func (c *FaceClient) Describe(ctx context.Context, image []byte) (*services.FaceAnalysis, error) {
	result, err := c.Analyze(ctx, image)
	if err != nil {
		logger.FaceWarn("analyze_soft_fail", "Analysis failed, treating as no face", map[string]interface{}{
			"error": err.Error(),
		})
		return &services.FaceAnalysis{FaceCount: 0}, nil
	}

	analysis := &services.FaceAnalysis{FaceCount: len(result.Results)}
	if len(result.Results) == 1 {
		analysis.Description = coerceDescription(result.Results[0])
	}
	return analysis, nil
}

// Compare runs a pairwise verification between the probe and a reference
// image.
func (c *FaceClient) Compare(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error) {
	reqBody := VerifyRequest{
		Img1: base64.StdEncoding.EncodeToString(probe),
		Img2: base64.StdEncoding.EncodeToString(reference),
	}

	var result VerifyResponse
	if err := c.post(ctx, "/verify", reqBody, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("face verification failed: %s", result.Error)
	}

	return &services.SimilarityResult{
		Verified: result.Verified,
		Distance: result.Distance,
	}, nil
}

// Analyze sends the raw attribute-analysis request.
func (c *FaceClient) Analyze(ctx context.Context, image []byte) (*AnalyzeResponse, error) {
	reqBody := AnalyzeRequest{
		Img:     base64.StdEncoding.EncodeToString(image),
		Actions: analyzeActions,
	}

	var result AnalyzeResponse
	if err := c.post(ctx, "/analyze", reqBody, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("face analysis failed: %s", result.Error)
	}

	return &result, nil
}

// Health checks if the face API is healthy
func (c *FaceClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call health API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// IsAvailable checks if the face API is available
func (c *FaceClient) IsAvailable(ctx context.Context) bool {
	health, err := c.Health(ctx)
	if err != nil {
		return false
	}
	return health.Status == "ok"
}

func (c *FaceClient) post(ctx context.Context, path string, reqBody, out interface{}) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call face API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("face API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// coerceDescription converts one raw analysis result into the well-typed
// schema. This is the only place raw payload fields are touched.
func coerceDescription(r AnalyzeResult) *services.FaceDescription {
	desc := &services.FaceDescription{
		Age:     r.Age,
		Gender:  r.DominantGender,
		Emotion: r.DominantEmotion,
		Race:    r.DominantRace,
	}
	if desc.Gender == "" {
		desc.Gender = "unknown"
	}
	if desc.Emotion == "" {
		desc.Emotion = "unknown"
	}
	if desc.Race == "" {
		desc.Race = "unknown"
	}
	if len(r.Gender) > 0 {
		desc.GenderScores = services.AttributeScores(r.Gender)
	}
	if len(r.Emotion) > 0 {
		desc.EmotionScores = services.AttributeScores(r.Emotion)
	}
	if len(r.Race) > 0 {
		desc.RaceScores = services.AttributeScores(r.Race)
	}
	return desc
}
