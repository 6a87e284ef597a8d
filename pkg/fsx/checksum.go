package fsx

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Hasher computes the content digest of a byte stream.
type Hasher interface {
	Sum(r io.Reader) (string, error)
}

// SHA1Hasher is the Hasher used for manifests. The digest is lower case hex.
type SHA1Hasher struct{}

var _ Hasher = SHA1Hasher{}

func (SHA1Hasher) Sum(r io.Reader) (string, error) {
	return Checksum(r)
}

// Checksum streams r to the end and returns its SHA-1 digest as lower case hex.
// Read errors are returned unchanged; nothing is retried.
func Checksum(r io.Reader) (string, error) {
	hash := sha1.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// StringChecksum returns the SHA-1 digest of the UTF-8 bytes of s.
func StringChecksum(s string) string {
	// reading from a strings.Reader cannot fail
	sum, _ := Checksum(strings.NewReader(s))
	return sum
}

// FileChecksum opens filePath for read and returns the SHA-1 digest of its content.
func FileChecksum(filePath string) (string, error) {
	file, err := OSFileSystem{}.Open(filePath)
	if err != nil {
		return "", err
	}
	defer CloseFile(file)

	sum, err := Checksum(file)
	if err != nil {
		return "", fmt.Errorf("failed to compute checksum of %s: %w", filePath, err)
	}

	return sum, nil
}
