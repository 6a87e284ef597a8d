// Package manifest holds the inventory records of a scanned tree, their ordered store
// and their JSON encoding.
package manifest

import "time"

// TimeLayout is the on-disk timestamp format. Timestamps are always UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

// Record is the identity snapshot of one file or directory.
//
// A directory record never carries Length or a hash. A file record carries Length and
// SHA1 unless Error is set. When Error is set, Length, the hashes and the timestamps are
// absent.
type Record struct {
	Path        string
	IsDirectory bool
	MD5         string
	SHA1        string
	SHA256      string
	Length      *int64
	Created     *time.Time
	Modified    *time.Time
	Accessed    *time.Time
	Error       string
}

// HasLength reports whether the record carries a positive byte length.
func (r Record) HasLength() bool {
	return r.Length != nil && *r.Length > 0
}

// Size returns the byte length of the record or zero when absent.
func (r Record) Size() int64 {
	if r.Length == nil {
		return 0
	}
	return *r.Length
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Time returns a pointer to t converted to UTC and truncated to the stored precision.
func Time(t time.Time) *time.Time {
	u := t.UTC().Truncate(time.Second)
	return &u
}

// Conflict messages produced by a manifest comparison.
const (
	MissingOnSecondary = "File is missing on the secondary drive!"
	SizeMismatch       = "File size mismatch!"
	ChecksumMismatch   = "SHA1 checksum mismatch!"
	MissingOnPrimary   = "File is missing on the primary drive!"
)

// Conflict is a divergence between corresponding nodes of two manifests.
type Conflict struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
