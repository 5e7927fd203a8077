package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256 returns the hex-encoded SHA-256 checksum of the input string.
func SHA256(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// SHA256Reader returns the hex-encoded SHA-256 checksum of everything read
// from the reader.
func SHA256Reader(reader io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
