package backfill

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the content digest used to spot the same export saved
// under different file names.
func Fingerprint(archive []byte) string {
	sum := sha256.Sum256(archive)
	return hex.EncodeToString(sum[:])
}

// Duplicate returns the earlier path holding the same content, if any.
func (s *BackfillState) Duplicate(digest string) (string, bool) {
	p, ok := s.Digests[digest]
	return p, ok
}
