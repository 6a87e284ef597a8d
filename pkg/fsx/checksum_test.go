package fsx

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{name: "abc", input: "abc", expected: "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Checksum(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sum)
			assert.Equal(t, tt.expected, StringChecksum(tt.input))
		})
	}
}

func TestChecksum_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, StringChecksum("ab"), StringChecksum("ba"))
}

func TestChecksum_ReadError(t *testing.T) {
	_, err := Checksum(io.MultiReader(strings.NewReader("abc"), failingReader{}))
	assert.EqualError(t, err, "device not ready")
}

func TestFileChecksum(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "abc.txt")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0644))

	sum, err := FileChecksum(file)
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", sum)

	_, err = FileChecksum(filepath.Join(tempDir, "missing.txt"))
	assert.Error(t, err)
}
