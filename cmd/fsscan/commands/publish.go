package commands

import (
	"context"
	"github.com/agamayoga/fsscan/internal/storage"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/pkg/errors"
)

// publish copies a finished output file to every enabled storage backend.
func publish(ctx context.Context, publishers []storage.Publisher, path string) error {
	if path == "" || len(publishers) == 0 {
		return nil
	}

	results, err := storage.PublishAll(ctx, publishers, path)
	for _, r := range results {
		logx.As().Info().
			Str("src", r.Src).
			Str("dest", r.Dest).
			Str(r.ChecksumType, r.Checksum).
			Msg("Output published")
	}

	if err != nil {
		return errors.Wrap(err, "failed to publish output")
	}

	return nil
}
