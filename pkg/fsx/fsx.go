package fsx

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

func PathExists(filePath string) (os.FileInfo, bool) {
	s, err := os.Stat(filePath)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return s, false
	}

	return s, true
}

func Copy(src string, dst string, perm os.FileMode) error {
	inputFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("couldn't open source file: %w", err)
	}
	defer CloseFile(inputFile)

	outputFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("couldn't open destination file: %w", err)
	}
	defer CloseFile(outputFile)

	if _, err = io.Copy(outputFile, inputFile); err != nil {
		return fmt.Errorf("couldn't copy to destination from source: %w", err)
	}

	// Flush the output file to ensure all data is written
	if err = outputFile.Sync(); err != nil {
		return fmt.Errorf("failed to flush destination file: %w", err)
	}

	return nil
}

func SplitFilePath(filePath string) (dir, fileNameWithoutExt, ext string) {
	dir, file := path.Split(filepath.ToSlash(filePath))
	ext = path.Ext(file)
	fileNameWithoutExt = strings.TrimSuffix(file, ext)
	return dir, fileNameWithoutExt, ext
}

func CombineFilePath(dir string, fileName string, ext string) string {
	return path.Join(dir, fmt.Sprintf("%s%s", fileName, ext))
}

func CloseFile(file io.Closer) {
	if file == nil {
		return
	}

	if err := file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close file: %v\n", err)
	}
}

// FileMD5 returns the hex MD5 of a file. It is used to compare published copies with
// their source, where object stores report MD5 ETags.
func FileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	defer CloseFile(file)

	hash := md5.New()
	_, err = io.Copy(hash, file)
	if err != nil {
		return "", fmt.Errorf("failed to compute hash of the file: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ResolveRoot turns a command line scan target into the absolute root path of the walk.
//
// On Windows a bare drive letter ("D" or "D:") is expanded to the drive root ("D:\").
// Everywhere else the path is made absolute.
//
// Returns:
//   - The resolved root path.
//   - An error if the target is malformed or does not exist.
func ResolveRoot(target string) (string, error) {
	if target == "" {
		return "", errors.New("scan target is empty")
	}

	root := target
	if runtime.GOOS == "windows" && isDriveLetter(target) {
		if len(root) == 1 {
			root += ":"
		}
		root += `\`
	} else {
		abs, err := filepath.Abs(target)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", target, err)
		}
		root = abs
	}

	info, exists := PathExists(root)
	if !exists || info == nil || !info.IsDir() {
		return "", fmt.Errorf("drive not found: %s", target)
	}

	return root, nil
}

func isDriveLetter(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	c := s[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return false
	}
	return len(s) == 1 || s[1] == ':'
}
