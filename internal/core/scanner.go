package core

import (
	"fmt"
	"github.com/agamayoga/fsscan/internal/manifest"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/google/uuid"
	"time"
)

// Scanner turns the node stream of a fsx.Walker into a manifest.
//
// A Scanner reuses the records of a prior manifest when resuming, reports progress against
// a byte budget fixed before the walk starts, and saves the manifest under construction
// whenever the wall-clock minute changes between two processed nodes.
//
// Notes:
//   - A Scanner is single-threaded; the manifest under construction is owned by it alone.
//   - Node-level failures are recorded in the manifest and never abort the scan.
type Scanner struct {
	id         string
	opts       ScanOptions
	fs         fsx.FileSystem
	hasher     fsx.Hasher
	progress   ProgressSink
	checkpoint Checkpointer
	now        func() time.Time

	output     *manifest.Manifest
	res        ScanResult
	lastMinute int
	saveErr    error
}

var _ fsx.Visitor = (*Scanner)(nil)

// NewScanner creates a new Scanner for a single scan.
//
// Parameters:
//   - opts: The scan root, the prior manifest and the byte budget.
//   - fs: The filesystem to traverse.
//   - hasher: Content digest of files; nil selects SHA-1.
//   - progress: Receiver of progress updates; nil discards them.
//   - checkpoint: Receiver of manifest snapshots; nil discards them.
//
// Returns:
//   - A Scanner instance ready to Run.
//   - An error if the root or the filesystem is missing.
func NewScanner(opts ScanOptions, fs fsx.FileSystem, hasher fsx.Hasher, progress ProgressSink, checkpoint Checkpointer) (*Scanner, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("scan root is empty")
	}

	if fs == nil {
		return nil, fmt.Errorf("filesystem is nil")
	}

	if hasher == nil {
		hasher = fsx.SHA1Hasher{}
	}

	if progress == nil {
		progress = NoopProgress{}
	}

	if checkpoint == nil {
		checkpoint = manifest.Writer{}
	}

	return &Scanner{
		id:         uuid.NewString(),
		opts:       opts,
		fs:         fs,
		hasher:     hasher,
		progress:   progress,
		checkpoint: checkpoint,
		now:        time.Now,
	}, nil
}

// Info returns the unique identifier of the scan run.
func (s *Scanner) Info() string {
	return s.id
}

// Run walks the scan root and returns the finished manifest with its summary counts.
//
// Behavior:
//   - The byte budget is the configured total, or the capacity of the root's volume when
//     none is configured. It never drops below one byte and is not recomputed mid-scan.
//   - Progress is reported as (0, 0, 0) before the walk, after every node, and as
//     (100, current, count) once the walk completes.
//   - The manifest is saved once more after the walk completes.
//
// Returns:
//   - The scan result. It is returned even when the final save fails.
//   - An error if the exclude patterns are invalid or the final save failed.
func (s *Scanner) Run() (*ScanResult, error) {
	matcher, err := fsx.NewPathMatcher(s.opts.Exclude)
	if err != nil {
		return nil, err
	}

	s.output = manifest.New()
	s.res = ScanResult{ID: s.id, Total: s.budget()}
	s.saveErr = nil
	s.lastMinute = s.now().Minute()

	logx.As().Info().
		Str("scanner", s.Info()).
		Str("root", s.opts.Root).
		Bool("resume", s.opts.Prior != nil).
		Int("prior", s.opts.Prior.Len()).
		Int64("total", s.res.Total).
		Msg("Scan started")

	s.progress.Update(0, 0, 0)
	fsx.NewWalker(s.fs, matcher).Scan(s.opts.Root, s)

	res := s.res
	return &res, s.saveErr
}

// budget returns the fixed byte total progress is measured against.
func (s *Scanner) budget() int64 {
	total := s.opts.Total
	if total <= 0 {
		capacity, err := s.fs.Capacity(s.opts.Root)
		if err != nil {
			logx.As().Warn().
				Err(err).
				Str("scanner", s.Info()).
				Str("root", s.opts.Root).
				Msg("Failed to read volume capacity, progress percentage will be meaningless")
		}
		total = capacity
	}

	if total < 1 {
		total = 1
	}

	return total
}

// OnFound records one visited node, reusing the prior record when there is one.
func (s *Scanner) OnFound(path string, isDir bool) {
	if prior, ok := s.opts.Prior.Lookup(path, isDir); ok {
		if !prior.IsDirectory && prior.HasLength() {
			s.res.Current += *prior.Length
		}
		s.output.Append(prior)
		s.res.Reused++
		s.advance()
		return
	}

	record, err := s.inspect(path, isDir)
	if err != nil {
		logx.As().Warn().
			Err(err).
			Str("scanner", s.Info()).
			Str("path", path).
			Bool("dir", isDir).
			Msg("Failed to read node")

		record = manifest.Record{Path: path, IsDirectory: isDir, Error: err.Error()}
		s.res.Errors++
	} else if !isDir {
		s.res.Current += record.Size()
	}

	s.output.Append(record)
	s.advance()
}

// OnError records a directory whose entries could not be listed. The record replaces the
// one written when the directory was found, so the directory appears exactly once.
func (s *Scanner) OnError(path string, message string) {
	s.res.Errors++

	logx.As().Warn().
		Str("scanner", s.Info()).
		Str("path", path).
		Str("error", message).
		Msg("Failed to list directory")

	if s.opts.Prior.ContainsPath(path) {
		return
	}

	record := manifest.Record{Path: path, IsDirectory: true, Error: message}
	if i, ok := s.output.IndexOf(path, true); ok {
		s.output.Replace(i, record)
		return
	}

	s.output.Append(record)
}

// OnCompleted reports the final progress and saves the finished manifest.
func (s *Scanner) OnCompleted() {
	s.progress.Update(100, s.res.Current, s.res.Count)
	s.res.Percent = percentOf(s.res.Current, s.res.Total)
	s.res.Manifest = s.output

	if err := s.checkpoint.Save(s.output.Records()); err != nil {
		s.saveErr = fmt.Errorf("failed to save manifest: %w", err)
	}

	logx.As().Info().
		Str("scanner", s.Info()).
		Int64("count", s.res.Count).
		Int64("errors", s.res.Errors).
		Int64("reused", s.res.Reused).
		Int64("hashed", s.res.Hashed).
		Int64("checkpoints", s.res.Checkpoints).
		Str("covered", BytesToString(s.res.Current)).
		Msg("Scan completed")
}

// inspect reads the metadata of a node and, for files, hashes the content.
func (s *Scanner) inspect(path string, isDir bool) (manifest.Record, error) {
	meta, err := s.fs.Stat(path)
	if err != nil {
		return manifest.Record{}, err
	}

	record := manifest.Record{
		Path:        path,
		IsDirectory: isDir,
		Created:     manifest.Time(meta.Created),
		Modified:    manifest.Time(meta.Modified),
		Accessed:    manifest.Time(meta.Accessed),
	}
	if isDir {
		return record, nil
	}

	sum, err := s.hash(path)
	if err != nil {
		return manifest.Record{}, err
	}

	record.Length = manifest.Int64(meta.Length)
	record.SHA1 = sum
	s.res.Hashed++

	return record, nil
}

func (s *Scanner) hash(path string) (string, error) {
	r, err := s.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer fsx.CloseFile(r)

	return s.hasher.Sum(r)
}

// advance counts the processed node, reports progress and saves a snapshot when the
// minute has changed since the last one.
func (s *Scanner) advance() {
	s.res.Count++
	s.progress.Update(percentOf(s.res.Current, s.res.Total), s.res.Current, s.res.Count)

	minute := s.now().Minute()
	if minute == s.lastMinute {
		return
	}
	s.lastMinute = minute

	if err := s.checkpoint.Save(s.output.Records()); err != nil {
		logx.As().Warn().
			Err(err).
			Str("scanner", s.Info()).
			Msg("Failed to save manifest checkpoint")
		return
	}
	s.res.Checkpoints++

	logx.As().Debug().
		Str("scanner", s.Info()).
		Int("records", s.output.Len()).
		Msg("Manifest checkpoint saved")
}
