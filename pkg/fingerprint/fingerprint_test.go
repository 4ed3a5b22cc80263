package fingerprint

import (
	"bytes"
	"testing"
)

func TestComputeDeterministic(t *testing.T) {
	data := []byte("fake jpeg bytes")

	first := Compute(data)
	second := Compute(data)

	if first != second {
		t.Errorf("Compute should be deterministic: %s vs %s", first, second)
	}
}

func TestComputeShape(t *testing.T) {
	digest := Compute([]byte{0xFF, 0xD8, 0xFF, 0xE0})

	// SHA-256 hex digest is 64 characters
	if len(digest) != 64 {
		t.Errorf("digest should be 64 hex characters, got %d: %s", len(digest), digest)
	}
	for _, c := range digest {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("digest contains non-hex character %q: %s", c, digest)
			break
		}
	}
}

func TestComputeDistinctInputs(t *testing.T) {
	tests := []struct {
		name string
		a    []byte
		b    []byte
	}{
		{"different content", []byte("image-a"), []byte("image-b")},
		{"one byte flipped", []byte{1, 2, 3, 4}, []byte{1, 2, 3, 5}},
		{"prefix", []byte("image"), []byte("image-longer")},
		{"empty vs non-empty", nil, []byte{0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if bytes.Equal(tc.a, tc.b) {
				t.Fatal("test inputs must differ")
			}
			if Compute(tc.a) == Compute(tc.b) {
				t.Errorf("distinct inputs produced the same digest")
			}
		})
	}
}
