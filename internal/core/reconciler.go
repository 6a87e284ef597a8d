package core

import (
	"github.com/agamayoga/fsscan/internal/manifest"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/google/uuid"
)

type matchKey struct {
	key   string
	isDir bool
}

// Reconciler compares a primary manifest against a secondary one and reports where they
// diverge. Paths are matched by their normalized key, see NormalizeKey.
type Reconciler struct {
	id       string
	opts     CompareOptions
	progress ProgressSink

	// HashEqual compares two content digests. It is only consulted for file pairs of
	// equal length.
	HashEqual func(a, b string) bool
}

// NewReconciler creates a new Reconciler.
//
// Parameters:
//   - opts: Comparison options; zero keeps paths whole, a negative prefix length selects
//     DefaultPrefixLength.
//   - progress: Receiver of progress updates; nil discards them.
//
// Returns:
//   - A Reconciler ready to Compare.
func NewReconciler(opts CompareOptions, progress ProgressSink) *Reconciler {
	if opts.PrefixLength < 0 {
		opts.PrefixLength = DefaultPrefixLength
	}

	if progress == nil {
		progress = NoopProgress{}
	}

	return &Reconciler{
		id:       uuid.NewString(),
		opts:     opts,
		progress: progress,
		HashEqual: func(a, b string) bool {
			return a == b
		},
	}
}

// Info returns the unique identifier of the reconciler instance.
func (r *Reconciler) Info() string {
	return r.id
}

// Compare reports the conflicts between the primary manifest a and the secondary manifest b.
//
// Behavior:
//   - Every record of a is matched against the last record of b with the same key and kind.
//     No match gives MissingOnSecondary. A file match of different length gives
//     SizeMismatch; otherwise differing digests give ChecksumMismatch.
//   - When some record of b was never matched, every record of b whose key was not seen yet
//     and that has no match in a gives MissingOnPrimary. Records of b that do match a record
//     of a are not classified again.
//   - Progress is reported after every record of a, measured in bytes of a.
//
// Returns:
//   - The conflicts in discovery order: pass over a first, then pass over b.
func (r *Reconciler) Compare(a, b *manifest.Manifest) *CompareResult {
	lastInB := r.index(b)
	lastInA := r.index(a)

	res := &CompareResult{Conflicts: []manifest.Conflict{}, Total: a.TotalLength()}
	if res.Total < 1 {
		res.Total = 1
	}

	logx.As().Info().
		Str("reconciler", r.Info()).
		Int("primary", a.Len()).
		Int("secondary", b.Len()).
		Msg("Comparison started")

	r.progress.Update(0, 0, 0)

	checked := make(map[string]struct{}, a.Len())
	targeted := make(map[int]struct{}, b.Len())
	for _, src := range a.Records() {
		key := NormalizeKey(src.Path, r.opts.PrefixLength)
		checked[key] = struct{}{}

		if i, ok := lastInB[matchKey{key: key, isDir: src.IsDirectory}]; ok {
			targeted[i] = struct{}{}
			if msg := r.classify(src, b.At(i)); msg != "" {
				res.Conflicts = append(res.Conflicts, manifest.Conflict{Path: src.Path, Message: msg})
			}
		} else {
			res.Conflicts = append(res.Conflicts, manifest.Conflict{Path: src.Path, Message: manifest.MissingOnSecondary})
		}

		res.Count++
		if src.HasLength() {
			res.Current += *src.Length
		}
		r.progress.Update(percentOf(res.Current, res.Total), res.Current, res.Count)
	}

	if len(targeted) < b.Len() {
		for _, dst := range b.Records() {
			key := NormalizeKey(dst.Path, r.opts.PrefixLength)
			if _, ok := checked[key]; ok {
				continue
			}
			checked[key] = struct{}{}

			if _, ok := lastInA[matchKey{key: key, isDir: dst.IsDirectory}]; !ok {
				res.Conflicts = append(res.Conflicts, manifest.Conflict{Path: dst.Path, Message: manifest.MissingOnPrimary})
			}
			res.Count++
		}
	}

	r.progress.Update(100, res.Current, res.Count)

	logx.As().Info().
		Str("reconciler", r.Info()).
		Int("conflicts", len(res.Conflicts)).
		Int64("count", res.Count).
		Msg("Comparison completed")

	return res
}

// classify returns the conflict message for a matched pair, or "" when they agree.
// Directories always agree.
func (r *Reconciler) classify(src, dst manifest.Record) string {
	if dst.IsDirectory {
		return ""
	}

	if !sameLength(src.Length, dst.Length) {
		return manifest.SizeMismatch
	}

	if !r.HashEqual(src.SHA1, dst.SHA1) {
		return manifest.ChecksumMismatch
	}

	return ""
}

// index maps every (key, kind) of m to the position of its last record.
func (r *Reconciler) index(m *manifest.Manifest) map[matchKey]int {
	idx := make(map[matchKey]int, m.Len())
	for i, rec := range m.Records() {
		idx[matchKey{key: NormalizeKey(rec.Path, r.opts.PrefixLength), isDir: rec.IsDirectory}] = i
	}
	return idx
}

// sameLength compares optional lengths; two absent lengths are equal.
func sameLength(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
