//go:build !windows

package core

import (
	"bytes"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fifoTree creates a directory holding a regular file and a named pipe nobody writes to.
func fifoTree(t *testing.T) (dir string, file string, fifo string) {
	dir = t.TempDir()
	file = filepath.Join(dir, "a.txt")
	fifo = filepath.Join(dir, "pipe")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))
	require.NoError(t, unix.Mkfifo(fifo, 0644))
	return dir, file, fifo
}

func TestScanner_NamedPipe(t *testing.T) {
	dir, file, fifo := fifoTree(t)

	scanner, err := NewScanner(ScanOptions{Root: dir, Total: 100}, fsx.OSFileSystem{}, nil, nil, nil)
	require.NoError(t, err)

	type outcome struct {
		res *ScanResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := scanner.Run()
		done <- outcome{res, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not complete")
	}

	require.NoError(t, out.err)
	assert.Equal(t, int64(3), out.res.Count)
	assert.Equal(t, int64(1), out.res.Errors)
	assert.Equal(t, int64(5), out.res.Current)

	rec, ok := out.res.Manifest.Lookup(fifo, false)
	require.True(t, ok)
	assert.Contains(t, rec.Error, fsx.ErrNotRegular.Error())
	assert.Nil(t, rec.Length)
	assert.Empty(t, rec.SHA1)

	rec, ok = out.res.Manifest.Lookup(file, false)
	require.True(t, ok)
	assert.Equal(t, fsx.StringChecksum("hello"), rec.SHA1)
}

func TestChecksumPaths_NamedPipe(t *testing.T) {
	dir, file, fifo := fifoTree(t)

	done := make(chan error, 1)
	var buf bytes.Buffer
	go func() {
		done <- ChecksumPaths(&buf, fsx.OSFileSystem{}, fsx.SHA1Hasher{}, []string{dir})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("checksum did not complete")
	}
	assert.Equal(t, fsx.StringChecksum("hello")+" *"+file+"\n", buf.String())

	err := ChecksumPaths(&buf, fsx.OSFileSystem{}, fsx.SHA1Hasher{}, []string{fifo})
	assert.ErrorIs(t, err, fsx.ErrNotRegular)
}
