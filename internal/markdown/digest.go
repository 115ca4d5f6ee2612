package markdown

import (
	"bytes"
	"crypto/sha256"
)

// Digest returns the SHA-256 digest of content. Each call hashes a fresh input.
func Digest(content []byte) []byte {
	sum := sha256.Sum256(content)
	return sum[:]
}

// SameContent reports whether a and b hash to the same digest.
func SameContent(a, b []byte) bool {
	return bytes.Equal(Digest(a), Digest(b))
}
