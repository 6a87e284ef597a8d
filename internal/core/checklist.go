package core

import (
	"bufio"
	"fmt"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"io"
	"regexp"
	"strings"
)

// Status labels printed for each verified entry of a checksum list.
const (
	StatusOK      = " OK "
	StatusFail    = "FAIL"
	StatusMissing = "MISS"
)

// entryPattern matches one line of a checksum list: a SHA-1 digest, a space, an asterisk
// and the path.
var entryPattern = regexp.MustCompile(`(?i)^([0-9a-f]{40})\s\*(.+)$`)

// VerifyResult counts the outcome of a checksum list verification.
type VerifyResult struct {
	OK      int
	Failed  int
	Missing int
}

// Passed reports whether every entry matched.
func (r VerifyResult) Passed() bool {
	return r.Failed == 0 && r.Missing == 0
}

// WriteEntry writes one checksum list line.
func WriteEntry(w io.Writer, sum string, path string) error {
	_, err := fmt.Fprintf(w, "%s *%s\n", sum, path)
	return err
}

// ChecksumPaths writes a checksum list entry for every path.
//
// Behavior:
//   - A file yields one entry.
//   - A directory yields one entry per file directly inside it. Files that cannot be read
//     are skipped with a warning, they may be locked by another process.
//
// Returns:
//   - An error if a path does not exist, a directory cannot be listed, or a named file
//     cannot be read.
func ChecksumPaths(w io.Writer, fs fsx.FileSystem, hasher fsx.Hasher, paths []string) error {
	for _, p := range paths {
		meta, err := fs.Stat(p)
		if err != nil {
			return fmt.Errorf("path does not exist: %s: %w", p, err)
		}

		if !meta.IsDir {
			sum, err := sumFile(fs, hasher, p)
			if err != nil {
				return fmt.Errorf("failed to compute checksum of %s: %w", p, err)
			}
			if err := WriteEntry(w, sum, p); err != nil {
				return err
			}
			continue
		}

		files, err := fs.ListFiles(p)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", p, err)
		}

		for _, f := range files {
			sum, err := sumFile(fs, hasher, f)
			if err != nil {
				logx.As().Warn().Err(err).Str("path", f).Msg("File skipped, it may be used by another process")
				continue
			}
			if err := WriteEntry(w, sum, f); err != nil {
				return err
			}
		}
	}

	return nil
}

// VerifyList re-hashes every file named in a checksum list and writes one status line per
// entry, "[ OK ] path", "[FAIL] path" or "[MISS] path". Lines that are not entries are
// ignored. Digests compare case-insensitively.
//
// Returns:
//   - The counts of each status.
//   - An error only if the list itself cannot be read or the report cannot be written.
func VerifyList(r io.Reader, w io.Writer, fs fsx.FileSystem, hasher fsx.Hasher) (*VerifyResult, error) {
	res := &VerifyResult{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := entryPattern.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}
		expected, path := m[1], m[2]

		status := StatusMissing
		if meta, err := fs.Stat(path); err == nil && !meta.IsDir {
			sum, err := sumFile(fs, hasher, path)
			if err != nil {
				logx.As().Warn().Err(err).Str("path", path).Msg("Failed to compute checksum")
			}
			if err == nil && strings.EqualFold(sum, expected) {
				status = StatusOK
			} else {
				status = StatusFail
			}
		}

		switch status {
		case StatusOK:
			res.OK++
		case StatusFail:
			res.Failed++
		default:
			res.Missing++
		}

		if _, err := fmt.Fprintf(w, "[%s] %s\n", status, path); err != nil {
			return res, err
		}
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read checksum list: %w", err)
	}

	return res, nil
}

func sumFile(fs fsx.FileSystem, hasher fsx.Hasher, path string) (string, error) {
	r, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer fsx.CloseFile(r)

	return hasher.Sum(r)
}
