package core

import (
	"github.com/agamayoga/fsscan/internal/manifest"
)

// ProgressSink receives progress updates after every processed node.
//
// Methods:
//   - Update: Reports the percentage of the byte budget covered, the bytes covered so far
//     and the number of nodes processed so far.
//
// Notes:
//   - Implementations belong to the presentation layer; the core never inspects what they
//     do with an update.
type ProgressSink interface {
	Update(percent float64, current int64, count int64)
}

// Checkpointer persists a snapshot of the manifest under construction.
//
// Notes:
//   - Every call receives the full record list and overwrites the previous snapshot.
//   - Writes are not required to be atomic.
type Checkpointer interface {
	Save(records []manifest.Record) error
}

// ScanOptions is the explicit configuration of one scan, built once from the command line
// and the configuration file.
//
// Fields:
//   - Root: The absolute directory to traverse.
//   - Prior: A previously produced manifest to resume from, or nil.
//   - Total: The byte budget of the scan; zero means the capacity of the root's volume.
//   - Exclude: Glob patterns of paths to skip.
type ScanOptions struct {
	Root    string
	Prior   *manifest.Manifest
	Total   int64
	Exclude []string
}

// ScanResult summarises a finished scan.
//
// Fields:
//   - ID: A unique identifier of the scan run.
//   - Manifest: The produced manifest in discovery order.
//   - Count: Nodes visited.
//   - Errors: Node and directory listing failures.
//   - Current: Bytes covered.
//   - Total: The byte budget used for progress.
//   - Percent: Current as a percentage of Total.
//   - Reused: Records copied from the prior manifest.
//   - Hashed: Files whose content was hashed during this run.
//   - Checkpoints: Snapshots written while the scan was running.
type ScanResult struct {
	ID          string
	Manifest    *manifest.Manifest
	Count       int64
	Errors      int64
	Current     int64
	Total       int64
	Percent     float64
	Reused      int64
	Hashed      int64
	Checkpoints int64
}

// CompareOptions is the explicit configuration of one manifest comparison.
//
// Fields:
//   - PrefixLength: Number of leading path characters stripped from every path before
//     matching, typically the volume prefix such as "C:\". Zero compares whole paths.
type CompareOptions struct {
	PrefixLength int
}

// DefaultPrefixLength strips a drive letter and separator.
const DefaultPrefixLength = 3

// CompareResult holds the conflicts between two manifests in discovery order.
type CompareResult struct {
	Conflicts []manifest.Conflict
	// Count is the number of records of both manifests examined.
	Count int64
	// Current is the number of bytes of the primary manifest examined.
	Current int64
	Total   int64
}

// NoopProgress discards progress updates.
type NoopProgress struct{}

var _ ProgressSink = NoopProgress{}

func (NoopProgress) Update(float64, int64, int64) {}
