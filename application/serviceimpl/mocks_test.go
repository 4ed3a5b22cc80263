package serviceimpl

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"faceregistry/domain/models"
	"faceregistry/domain/repositories"
	"faceregistry/domain/services"
)

// memGallery is an in-memory stand-in for the postgres-backed gallery. It
// implements all three repository interfaces with the same transactional
// guarantees: registrations and recognitions mutate under one lock, and the
// fingerprint column is unique.
type memGallery struct {
	mu         sync.Mutex
	persons    []models.Person
	detections []models.Detection

	// Error injection
	ListAllError           error
	GetByFingerprintError  error
	RegisterPersonError    error
	RecordRecognitionError error
}

func newMemGallery() *memGallery {
	return &memGallery{}
}

func (g *memGallery) GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.persons {
		if g.persons[i].ID == id {
			p := g.persons[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("person %s not found", id)
}

func (g *memGallery) ListAll(ctx context.Context) ([]models.Person, error) {
	if g.ListAllError != nil {
		return nil, g.ListAllError
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Person, len(g.persons))
	copy(out, g.persons)
	return out, nil
}

func (g *memGallery) ListByLastSeen(ctx context.Context, offset, limit int) ([]models.Person, int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Person, len(g.persons))
	copy(out, g.persons)
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})

	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (g *memGallery) Count(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return int64(len(g.persons)), nil
}

func (g *memGallery) MostSeen(ctx context.Context) (*models.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.persons) == 0 {
		return nil, nil
	}
	best := g.persons[0]
	for _, p := range g.persons[1:] {
		if p.TotalDetections > best.TotalDetections {
			best = p
		}
	}
	return &best, nil
}

// memDetectionRepo exposes the detection-side view of a memGallery. It is a
// separate type because both repository interfaces name a Count method.
type memDetectionRepo struct {
	g *memGallery
}

func (r memDetectionRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Detection, error) {
	if r.g.GetByFingerprintError != nil {
		return nil, r.g.GetByFingerprintError
	}
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	for i := range r.g.detections {
		if r.g.detections[i].ImageFingerprint == fingerprint {
			d := r.g.detections[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r memDetectionRepo) Count(ctx context.Context) (int64, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	return int64(len(r.g.detections)), nil
}

func (r memDetectionRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	var n int64
	for i := range r.g.detections {
		if r.g.detections[i].DetectedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r memDetectionRepo) AggregatesByPerson(ctx context.Context) ([]repositories.PersonAggregate, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()

	byPerson := make(map[uuid.UUID]*repositories.PersonAggregate)
	for i := range r.g.detections {
		d := &r.g.detections[i]
		agg, ok := byPerson[d.PersonID]
		if !ok {
			agg = &repositories.PersonAggregate{PersonID: d.PersonID}
			byPerson[d.PersonID] = agg
		}
		agg.Detections++
		agg.ConfidenceSum += d.Confidence
	}

	out := make([]repositories.PersonAggregate, 0, len(byPerson))
	for _, agg := range byPerson {
		out = append(out, *agg)
	}
	return out, nil
}

func (g *memGallery) RegisterPerson(ctx context.Context, person *models.Person, detection *models.Detection) error {
	if g.RegisterPersonError != nil {
		return g.RegisterPersonError
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.detections {
		if g.detections[i].ImageFingerprint == detection.ImageFingerprint {
			return fmt.Errorf("duplicate fingerprint %s", detection.ImageFingerprint)
		}
	}

	person.ID = uuid.New()
	detection.ID = uuid.New()
	detection.PersonID = person.ID
	g.persons = append(g.persons, *person)
	g.detections = append(g.detections, *detection)
	return nil
}

func (g *memGallery) RecordRecognition(ctx context.Context, personID uuid.UUID, detection *models.Detection) (*models.Person, error) {
	if g.RecordRecognitionError != nil {
		return nil, g.RecordRecognitionError
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.detections {
		if g.detections[i].ImageFingerprint == detection.ImageFingerprint {
			return nil, fmt.Errorf("duplicate fingerprint %s", detection.ImageFingerprint)
		}
	}

	for i := range g.persons {
		if g.persons[i].ID != personID {
			continue
		}
		p := &g.persons[i]
		p.ConfidenceAvg = models.NextConfidenceAvg(p.ConfidenceAvg, p.TotalDetections, detection.Confidence)
		p.TotalDetections++
		p.LastSeen = detection.DetectedAt

		detection.ID = uuid.New()
		detection.PersonID = personID
		g.detections = append(g.detections, *detection)

		out := *p
		return &out, nil
	}
	return nil, fmt.Errorf("person %s not found", personID)
}

// seedPerson inserts a person with an initiating detection, bypassing the
// pipeline, and returns the person's ID.
func (g *memGallery) seedPerson(code, refPath, fingerprint string) uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().Add(-time.Hour)
	person := models.Person{
		ID:                 uuid.New(),
		Code:               code,
		FirstSeen:          now,
		LastSeen:           now,
		TotalDetections:    1,
		ReferenceImagePath: refPath,
	}
	g.persons = append(g.persons, person)
	g.detections = append(g.detections, models.Detection{
		ID:               uuid.New(),
		PersonID:         person.ID,
		DetectedAt:       now,
		Confidence:       models.RegistrationConfidence,
		ImageFingerprint: fingerprint,
	})
	return person.ID
}

// mockAnalyzer is a scriptable services.FaceAnalyzer.
type mockAnalyzer struct {
	DescribeFunc func(ctx context.Context, image []byte) (*services.FaceAnalysis, error)
	CompareFunc  func(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error)

	mu            sync.Mutex
	describeCalls int
	compareCalls  int
}

func (m *mockAnalyzer) Describe(ctx context.Context, image []byte) (*services.FaceAnalysis, error) {
	m.mu.Lock()
	m.describeCalls++
	m.mu.Unlock()
	return m.DescribeFunc(ctx, image)
}

func (m *mockAnalyzer) Compare(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error) {
	m.mu.Lock()
	m.compareCalls++
	m.mu.Unlock()
	return m.CompareFunc(ctx, probe, reference)
}

func (m *mockAnalyzer) DescribeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.describeCalls
}

func describeSingleFace(desc *services.FaceDescription) func(context.Context, []byte) (*services.FaceAnalysis, error) {
	return func(ctx context.Context, image []byte) (*services.FaceAnalysis, error) {
		return &services.FaceAnalysis{FaceCount: 1, Description: desc}, nil
	}
}

// memRefStore keeps reference images in memory, keyed by generated path.
type memRefStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	serial int

	SaveError error
}

func newMemRefStore() *memRefStore {
	return &memRefStore{files: make(map[string][]byte)}
}

func (s *memRefStore) Save(personCode string, image []byte) (string, error) {
	if s.SaveError != nil {
		return "", s.SaveError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	path := fmt.Sprintf("%s/main_%d.jpg", personCode, s.serial)
	s.files[path] = image
	return path, nil
}

func (s *memRefStore) Load(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("no reference image at %s", path)
	}
	return data, nil
}

func (s *memRefStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *memRefStore) put(path string, image []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = image
}

func (s *memRefStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// memCache is a map-backed services.StatsCache.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *memCache) Del(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}
