// Package checksum fingerprints staged uploads so a confirm step can tell
// whether the stored bytes are still the ones that were previewed.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrNoChecksum = errors.New("expected checksum is not set")

// Sum returns the hex SHA-256 of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

type Matcher struct {
	expected string
}

func NewMatcher(expected string) *Matcher {
	return &Matcher{expected: expected}
}

// Match reports whether data hashes to the expected checksum.
func (m *Matcher) Match(data []byte) (bool, error) {
	if m.expected == "" {
		return false, ErrNoChecksum
	}
	return Sum(data) == m.expected, nil
}
