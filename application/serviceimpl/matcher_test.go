package serviceimpl

import (
	"context"
	"errors"
	"testing"

	"faceregistry/domain/models"
	"faceregistry/domain/services"
)

func galleryOf(store *memRefStore, refs map[string][]byte) []models.Person {
	persons := make([]models.Person, 0, len(refs))
	for code, image := range refs {
		path := code + "/main_1.jpg"
		store.put(path, image)
		persons = append(persons, models.Person{Code: code, ReferenceImagePath: path})
	}
	return persons
}

func TestFindBestMatchSkipsUnreadableReference(t *testing.T) {
	store := newMemRefStore()
	persons := galleryOf(store, map[string][]byte{
		"PERSON_B": []byte("face:alice#ref"),
	})
	persons = append([]models.Person{
		{Code: "PERSON_A", ReferenceImagePath: "PERSON_A/missing.jpg"},
	}, persons...)

	m := &matcher{
		analyzer: &mockAnalyzer{CompareFunc: compareByTag(0.2)},
		refStore: store,
	}

	result := m.findBestMatch(context.Background(), []byte("face:alice#probe"), persons, 0.65)
	if !result.Found {
		t.Fatal("scan should survive an unreadable reference and find the readable match")
	}
	if result.Person.Code != "PERSON_B" {
		t.Errorf("matched %q, want PERSON_B", result.Person.Code)
	}
}

func TestFindBestMatchSkipsCompareFailure(t *testing.T) {
	store := newMemRefStore()
	store.put("PERSON_A/main_1.jpg", []byte("fail"))
	store.put("PERSON_B/main_1.jpg", []byte("face:alice#ref"))
	persons := []models.Person{
		{Code: "PERSON_A", ReferenceImagePath: "PERSON_A/main_1.jpg"},
		{Code: "PERSON_B", ReferenceImagePath: "PERSON_B/main_1.jpg"},
	}

	analyzer := &mockAnalyzer{
		CompareFunc: func(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error) {
			if string(reference) == "fail" {
				return nil, errors.New("verification timed out")
			}
			return compareByTag(0.2)(ctx, probe, reference)
		},
	}
	m := &matcher{analyzer: analyzer, refStore: store}

	result := m.findBestMatch(context.Background(), []byte("face:alice#probe"), persons, 0.65)
	if !result.Found {
		t.Fatal("scan should survive a comparison failure and find the other match")
	}
	if result.Person.Code != "PERSON_B" {
		t.Errorf("matched %q, want PERSON_B", result.Person.Code)
	}
}

func TestFindBestMatchIgnoresUnverified(t *testing.T) {
	store := newMemRefStore()
	persons := galleryOf(store, map[string][]byte{
		"PERSON_A": []byte("face:bob#ref"),
	})

	analyzer := &mockAnalyzer{
		// Low distance but not verified: the pair must not count
		CompareFunc: func(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error) {
			return &services.SimilarityResult{Verified: false, Distance: 0.05}, nil
		},
	}
	m := &matcher{analyzer: analyzer, refStore: store}

	result := m.findBestMatch(context.Background(), []byte("face:alice#probe"), persons, 0.65)
	if result.Found {
		t.Error("unverified pair must never produce a match")
	}
	if result.HighestSeen != 0 {
		t.Errorf("highest seen = %v for unverified pairs, want 0", result.HighestSeen)
	}
}

func TestFindBestMatchTracksHighestSeenBelowThreshold(t *testing.T) {
	store := newMemRefStore()
	persons := galleryOf(store, map[string][]byte{
		"PERSON_A": []byte("face:alice#ref"),
	})

	m := &matcher{
		analyzer: &mockAnalyzer{CompareFunc: compareByTag(0.6)}, // confidence 40
		refStore: store,
	}

	result := m.findBestMatch(context.Background(), []byte("face:alice#probe"), persons, 0.65)
	if result.Found {
		t.Error("confidence below threshold must not produce a match")
	}
	if result.HighestSeen != (1-0.6)*100 {
		t.Errorf("highest seen = %v, want %v", result.HighestSeen, (1-0.6)*100)
	}
}

func TestFindBestMatchPicksHighestConfidence(t *testing.T) {
	store := newMemRefStore()
	store.put("PERSON_A/main_1.jpg", []byte("near"))
	store.put("PERSON_B/main_1.jpg", []byte("nearest"))
	persons := []models.Person{
		{Code: "PERSON_A", ReferenceImagePath: "PERSON_A/main_1.jpg"},
		{Code: "PERSON_B", ReferenceImagePath: "PERSON_B/main_1.jpg"},
	}

	analyzer := &mockAnalyzer{
		CompareFunc: func(ctx context.Context, probe, reference []byte) (*services.SimilarityResult, error) {
			distance := 0.3
			if string(reference) == "nearest" {
				distance = 0.1
			}
			return &services.SimilarityResult{Verified: true, Distance: distance}, nil
		},
	}
	m := &matcher{analyzer: analyzer, refStore: store}

	result := m.findBestMatch(context.Background(), []byte("probe"), persons, 0.65)
	if !result.Found {
		t.Fatal("expected a match")
	}
	if result.Person.Code != "PERSON_B" {
		t.Errorf("matched %q, want the higher-confidence PERSON_B", result.Person.Code)
	}
	if result.Confidence != (1-0.1)*100 {
		t.Errorf("confidence = %v, want %v", result.Confidence, (1-0.1)*100)
	}
}

func TestFindBestMatchEmptyGallery(t *testing.T) {
	m := &matcher{
		analyzer: &mockAnalyzer{CompareFunc: compareByTag(0.1)},
		refStore: newMemRefStore(),
	}
	result := m.findBestMatch(context.Background(), []byte("probe"), nil, 0.65)
	if result.Found || result.Person != nil || result.HighestSeen != 0 {
		t.Errorf("empty gallery scan = %+v, want zero result", result)
	}
}
