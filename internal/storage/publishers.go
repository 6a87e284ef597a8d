package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/pkg/logx"
)

// NewPublishers builds a publisher for every enabled storage backend, in the order local
// directory, S3, GCS.
//
// Returns:
//   - The enabled publishers, empty when no backend is enabled.
//   - An error if an enabled backend is misconfigured.
func NewPublishers(cfg config.Config) ([]Publisher, error) {
	var publishers []Publisher
	if cfg.Storage == nil {
		return publishers, nil
	}

	retry := config.RetryConfig{}
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	if c := cfg.Storage.LocalDir; c != nil && c.Enabled {
		p, err := NewLocalDir("local-dir", *c)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s publisher: %w", TypeLocalDir, err)
		}
		publishers = append(publishers, p)
	}

	if c := cfg.Storage.S3; c != nil && c.Enabled {
		p, err := NewS3("s3", *c, retry)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s publisher: %w", TypeS3, err)
		}
		publishers = append(publishers, p)
	}

	if c := cfg.Storage.GCS; c != nil && c.Enabled {
		p, err := NewGCSWithS3("gcs", *c, retry)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s publisher: %w", TypeGCS, err)
		}
		publishers = append(publishers, p)
	}

	return publishers, nil
}

// PublishAll puts src to every publisher in order. A failing publisher does not stop the
// others.
//
// Returns:
//   - The details of every successful copy.
//   - The joined errors of the failed publishers, or nil.
func PublishAll(ctx context.Context, publishers []Publisher, src string) ([]*PublishInfo, error) {
	var results []*PublishInfo
	var errs []error

	for _, p := range publishers {
		info, err := p.Put(ctx, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, info)
	}

	logx.As().Debug().
		Str("src", src).
		Int("published", len(results)).
		Int("failed", len(errs)).
		Msg("Output file published")

	return results, errors.Join(errs...)
}
