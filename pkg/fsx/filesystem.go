package fsx

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrNotRegular is returned when opening a node that is not a regular file, such as a
// named pipe, a socket or a device.
var ErrNotRegular = errors.New("not a regular file")

// FileMeta is the basic metadata of a filesystem node. Timestamps are UTC.
type FileMeta struct {
	IsDir    bool
	Length   int64
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

// FileSystem is the storage boundary consumed by the walker and the scanner.
//
// Methods:
//   - ListFiles: Returns the full paths of the non-directory entries directly inside dir.
//   - ListDirs: Returns the full paths of the subdirectories directly inside dir.
//   - Stat: Returns the metadata of a node.
//   - Open: Opens a file for shared read.
//   - Capacity: Returns the total size in bytes of the volume holding path.
//
// Notes:
//   - Permission and device failures are returned as error values, never panics.
//   - Listing order is whatever the underlying storage reports; callers must not rely on it
//     being stable across runs.
type FileSystem interface {
	ListFiles(dir string) ([]string, error)
	ListDirs(dir string) ([]string, error)
	Stat(path string) (FileMeta, error)
	Open(path string) (io.ReadCloser, error)
	Capacity(path string) (int64, error)
}

// OSFileSystem is the FileSystem backed by the operating system.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) ListFiles(dir string) ([]string, error) {
	return listEntries(dir, false)
}

func (OSFileSystem) ListDirs(dir string) ([]string, error) {
	return listEntries(dir, true)
}

// listEntries reads dir and keeps the entries whose directory flag equals dirs.
// Symbolic links are never reported as directories so they are not followed.
func listEntries(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() != dirs {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

func (OSFileSystem) Stat(path string) (FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMeta{}, err
	}

	created, accessed := fileTimes(path, info)
	meta := FileMeta{
		IsDir:    info.IsDir(),
		Created:  created.UTC(),
		Modified: info.ModTime().UTC(),
		Accessed: accessed.UTC(),
	}
	if !info.IsDir() {
		meta.Length = info.Size()
	}

	return meta, nil
}

// Open opens a regular file for read. Other node types are refused before opening since
// reading a FIFO without a writer blocks forever.
func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.Mode().IsRegular() {
		return nil, &fs.PathError{Op: "open", Path: path, Err: ErrNotRegular}
	}

	return os.Open(path)
}

func (OSFileSystem) Capacity(path string) (int64, error) {
	return volumeCapacity(path)
}
