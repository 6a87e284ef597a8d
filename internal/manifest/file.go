package manifest

import (
	"bufio"
	"fmt"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/klauspost/compress/zstd"
	"io"
	"os"
	"strings"
)

// CompressedExt marks manifest and conflict files stored zstd-compressed.
const CompressedExt = ".zst"

// Load reads a manifest file fully into memory.
func Load(path string) (*Manifest, error) {
	var records []Record
	err := readFile(path, func(r io.Reader) error {
		var err error
		records, err = DecodeRecords(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// LoadConflicts reads a conflict file.
func LoadConflicts(path string) ([]Conflict, error) {
	var conflicts []Conflict
	err := readFile(path, func(r io.Reader) error {
		var err error
		conflicts, err = DecodeConflicts(r)
		return err
	})
	return conflicts, err
}

// Save overwrites path with the encoded records. The write is not atomic: a crash in the
// middle leaves a truncated file behind.
func Save(path string, records []Record) error {
	return writeFile(path, records)
}

// SaveConflicts overwrites path with the encoded conflicts.
func SaveConflicts(path string, conflicts []Conflict) error {
	return writeFile(path, conflicts)
}

// Writer persists manifest snapshots to a fixed path. A Writer with an empty path
// discards every snapshot.
type Writer struct {
	Path string
}

// Save overwrites the writer's path with records.
func (w Writer) Save(records []Record) error {
	if w.Path == "" {
		return nil
	}
	return Save(w.Path, records)
}

func readFile(path string, decode func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fsx.CloseFile(f)

	var r io.Reader = bufio.NewReaderSize(f, 64*1024)
	if strings.HasSuffix(path, CompressedExt) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to open zstd stream of %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := decode(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeFile(path string, v any) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	return writeAndClose(f, path, v)
}

// writeAndClose encodes v to f and closes it. A failed close is returned since buffered
// data may not have reached the disk.
func writeAndClose(f io.WriteCloser, path string, v any) error {
	bw := bufio.NewWriterSize(f, 64*1024)
	var w io.Writer = bw
	var zw *zstd.Encoder
	var err error
	if strings.HasSuffix(path, CompressedExt) {
		zw, err = zstd.NewWriter(bw)
		if err != nil {
			fsx.CloseFile(f)
			return fmt.Errorf("failed to open zstd stream of %s: %w", path, err)
		}
		w = zw
	}

	if err := Encode(w, v); err != nil {
		fsx.CloseFile(f)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			fsx.CloseFile(f)
			return fmt.Errorf("failed to finish zstd stream of %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		fsx.CloseFile(f)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
