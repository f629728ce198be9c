// Package hash fingerprints catalog documents.
//
// A session records the fingerprint of the catalog it was composed against so
// later invocations can tell when the catalog changed underneath it (drift).
// The package provides a SHA-256 implementation and a fake for tests.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Hasher computes content digests.
type Hasher interface {
	// HashBytes returns the digest of data.
	HashBytes(data []byte) string

	// HashDocuments returns one digest over a set of named documents. The
	// result does not depend on map iteration order.
	HashDocuments(docs map[string][]byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes returns the hex-encoded SHA-256 of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashDocuments hashes "name\x00digest\n" lines sorted by name.
func (h *SHA256Hasher) HashDocuments(docs map[string][]byte) string {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	outer := sha256.New()
	for _, name := range names {
		outer.Write([]byte(name))
		outer.Write([]byte{0})
		outer.Write([]byte(h.HashBytes(docs[name])))
		outer.Write([]byte{'\n'})
	}
	return hex.EncodeToString(outer.Sum(nil))
}

// FakeHasher implements Hasher with deterministic values for testing.
type FakeHasher struct {
	fingerprint string
}

// NewFakeHasher creates a FakeHasher returning "fakehash".
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{fingerprint: "fakehash"}
}

// SetFingerprint sets the value returned by both methods.
func (h *FakeHasher) SetFingerprint(v string) {
	h.fingerprint = v
}

func (h *FakeHasher) HashBytes(data []byte) string {
	return h.fingerprint
}

func (h *FakeHasher) HashDocuments(docs map[string][]byte) string {
	return h.fingerprint
}
