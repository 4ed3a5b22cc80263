// Package fingerprint computes content digests of raw image bytes.
//
// The digest is used as an index key against prior detections to
// short-circuit exact resubmissions of the same file. It is not a
// perceptual hash: two different photos of the same person never collide,
// which is what makes it safe to skip face analysis on a hit.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the hex-encoded SHA-256 digest of the given bytes.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
