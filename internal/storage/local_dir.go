package storage

import (
	"context"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"os"
	"path/filepath"
)

const (
	defaultDirMode  os.FileMode = 0755
	publishFileMode os.FileMode = 0644
)

type localDirectoryHandler struct {
	*handler
	dirConfig config.LocalDirConfig
}

// ensureDirExists checks if the local directory exists. If it doesn't, it creates the directory.
func (d *localDirectoryHandler) ensureDirExists(ctx context.Context) error {
	if _, exists := fsx.PathExists(d.dirConfig.Path); exists {
		logx.As().Debug().
			Str("storage_type", d.Type()).
			Str("path", d.dirConfig.Path).
			Msg("Directory already exists")
		return nil
	}

	logx.As().Info().
		Str("storage_type", d.Type()).
		Str("path", d.dirConfig.Path).
		Msg("Directory does not exist, creating it")

	if err := os.MkdirAll(d.dirConfig.Path, d.dirMode()); err != nil {
		logx.As().Error().
			Str("storage_type", d.Type()).
			Str("path", d.dirConfig.Path).
			Err(err).
			Msg("Failed to create directory")
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

func (d *localDirectoryHandler) dirMode() os.FileMode {
	if d.dirConfig.Mode == 0 {
		return defaultDirMode
	}
	return d.dirConfig.Mode
}

// syncWithDir copies a file to the local directory. It skips copying if the file already exists with the same checksum.
func (d *localDirectoryHandler) syncWithDir(ctx context.Context, src string, dest string) (*PublishInfo, error) {
	info, exists := fsx.PathExists(src)
	if !exists {
		return nil, fmt.Errorf("source file does not exist: %s", src)
	}

	localChecksum, err := fsx.FileMD5(src)
	if err != nil {
		logx.As().Error().
			Str("src", src).
			Err(err).
			Msg("Failed to calculate local file checksum")
		return nil, fmt.Errorf("failed to calculate local checksum: %w", err)
	}

	destPath := filepath.Join(d.dirConfig.Path, filepath.FromSlash(dest))
	if destInfo, exists := fsx.PathExists(destPath); exists {
		remoteChecksum, err := fsx.FileMD5(destPath)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate remote checksum: %w", err)
		}

		if localChecksum == remoteChecksum {
			logx.As().Info().
				Str("src", src).
				Str("dest", destPath).
				Str("md5", remoteChecksum).
				Str("storage_type", d.Type()).
				Msg("File already exists in the local directory, skipping copy")
			return d.prepareUploadInfo(src, destPath, remoteChecksum, destInfo), nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), d.dirMode()); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if err = fsx.Copy(src, destPath, publishFileMode); err != nil {
		logx.As().Error().
			Str("src", src).
			Str("dest", destPath).
			Err(err).
			Msg("Failed to copy file to the local directory")
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	logx.As().Info().
		Str("src", src).
		Str("dest", destPath).
		Str("checksum", localChecksum).
		Str("storage_type", d.Type()).
		Msg("File copied successfully to the local directory")

	return d.prepareUploadInfo(src, destPath, localChecksum, info), nil
}

// prepareUploadInfo prepares the publish information for a file.
func (d *localDirectoryHandler) prepareUploadInfo(src string, dest string, checksum string, info os.FileInfo) *PublishInfo {
	return &PublishInfo{
		Src:          src,
		Dest:         dest,
		ChecksumType: "md5",
		Checksum:     checksum,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
}

func newLocalDir(id string, dirConfig config.LocalDirConfig) (*localDirectoryHandler, error) {
	if err := config.ValidateLocalDirConfig(dirConfig); err != nil {
		return nil, err
	}

	l := &localDirectoryHandler{
		handler: &handler{
			id:          id,
			storageType: TypeLocalDir,
		},
		dirConfig: dirConfig,
	}

	// Initialize the handler functions
	l.handler.preSync = l.ensureDirExists
	l.handler.syncFile = l.syncWithDir

	logx.As().Debug().
		Str("id", l.Info()).
		Str("storage_type", TypeLocalDir).
		Str("path", dirConfig.Path).
		Msg("Local directory storage handler created successfully")

	return l, nil
}

// NewLocalDir creates a new local directory storage handler.
func NewLocalDir(id string, dirConfig config.LocalDirConfig) (Publisher, error) {
	l, err := newLocalDir(id, dirConfig)
	if err != nil {
		return nil, err
	}
	return l, nil
}
