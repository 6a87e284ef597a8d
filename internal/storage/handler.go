package storage

import (
	"context"
	"fmt"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"path/filepath"
	"strings"
	"time"
)

const (
	TypeLocalDir = "LocalDir"
	TypeS3       = "S3"
	TypeGCS      = "GCS"
)

// PublishInfo describes a file copied to a storage backend.
type PublishInfo struct {
	Src          string
	Dest         string
	ChecksumType string
	Checksum     string
	Size         int64
	LastModified time.Time
}

// Publisher copies finished output files (manifests and conflict lists) to a backend.
//
// Methods:
//   - Info: Returns the unique identifier of the publisher.
//   - Type: Returns the storage type, one of TypeLocalDir, TypeS3 or TypeGCS.
//   - Put: Copies the file at src to the backend. Copies that already hold the same
//     content are left alone.
type Publisher interface {
	Info() string
	Type() string
	Put(ctx context.Context, src string) (*PublishInfo, error)
}

// handler is a base struct for managing file storage operations.
//
// Fields:
//   - id: A unique identifier for the handler.
//   - storageType: The type of storage (e.g., "S3", "LocalDir").
//   - pathPrefix: The prefix for the destination path.
//   - preSync: A function to validate or prepare the destination before syncing.
//   - syncFile: A function to handle the actual file synchronization.
type handler struct {
	id          string
	storageType string
	pathPrefix  string
	preSync     func(ctx context.Context) error
	syncFile    func(ctx context.Context, src string, dest string) (*PublishInfo, error)
}

// Info returns the unique identifier of the handler.
func (h *handler) Info() string {
	return h.id
}

// Type returns the storage type of the handler.
func (h *handler) Type() string {
	return h.storageType
}

// Put copies a file to the storage under the handler's path prefix.
//
// Parameters:
//   - ctx: The context for managing request deadlines and cancellations.
//   - src: The file to be published.
//
// Returns:
//   - The details of the stored copy.
//   - An error if the source is missing, the destination cannot be prepared or the copy fails.
func (h *handler) Put(ctx context.Context, src string) (*PublishInfo, error) {
	log := logx.As().With().
		Str("src", src).
		Str("storage_type", h.Type()).
		Str("handler", h.Info()).
		Logger()

	log.Debug().Msg("Publishing output file")

	if _, exists := fsx.PathExists(src); !exists {
		return nil, fmt.Errorf("source file does not exist: %s", src)
	}

	if h.preSync != nil {
		if err := h.preSync(ctx); err != nil {
			return nil, fmt.Errorf("pre-sync validation failed: %w", err)
		}
	}

	result, err := h.syncFile(ctx, src, h.computeDestinationPath(src))
	if err != nil {
		log.Error().Stack().Err(err).Msg(fmt.Sprintf("%s failed to publish file", h.Type()))
		return nil, fmt.Errorf("failed to publish file %s in %s: %w", src, h.Type(), err)
	}

	log.Info().Str("dest", result.Dest).Msg(fmt.Sprintf("%s successfully published the file", h.Type()))
	return result, nil
}

// computeDestinationPath returns the slash separated destination of src: the path prefix
// followed by the file name.
func (h *handler) computeDestinationPath(src string) string {
	_, fileName, ext := fsx.SplitFilePath(src)
	prefix := strings.Trim(filepath.ToSlash(h.pathPrefix), "/")
	return fsx.CombineFilePath(prefix, fileName, ext)
}
