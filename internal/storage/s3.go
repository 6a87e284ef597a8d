package storage

import (
	"context"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/internal/core"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"os"
	"time"
)

// bucketRetryDelay is the pause between two attempts to reach the bucket.
var bucketRetryDelay = time.Second

type s3Handler struct {
	*handler
	client       s3Client
	bucketConfig config.BucketConfig
	retryConfig  config.RetryConfig
	bucketReady  bool
}

// s3Client is an interface that defines the methods for interacting with S3-compatible storage.
// It is used to abstract the MinIO client to expose limited functionalities, which also allows for mocking in tests.
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)

	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error

	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)

	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ensureBucketExists checks if the bucket exists in S3. If it doesn't exist, it creates the bucket.
func (s *s3Handler) ensureBucketExists(ctx context.Context) error {
	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucketConfig.Bucket)
	if err != nil {
		return err
	}

	if !exists {
		logx.As().Debug().
			Str("storage_type", s.Type()).
			Str("bucket", s.bucketConfig.Bucket).
			Msg("Bucket does not exist, creating it")
		if err := s.client.MakeBucket(ctx, s.bucketConfig.Bucket, minio.MakeBucketOptions{Region: s.bucketConfig.Region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	s.bucketReady = true
	return nil
}

// waitForBucket retries ensureBucketExists up to the retry limit, pausing between attempts.
// The endpoint may still be starting when a scan finishes on a freshly provisioned host.
func (s *s3Handler) waitForBucket(ctx context.Context) error {
	attempts := s.retryConfig.Limit
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = s.ensureBucketExists(ctx); err == nil {
			return nil
		}

		logx.As().Warn().
			Int("attempt", i).
			Int("max_attempts", attempts).
			Str("bucket", s.bucketConfig.Bucket).
			Str("storage_type", s.Type()).
			Str("id", s.Info()).
			Err(err).
			Msg("Bucket is not reachable")

		if i < attempts {
			core.ApplyDelay(ctx, bucketRetryDelay)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("bucket %s is not reachable after %d attempts: %w", s.bucketConfig.Bucket, attempts, err)
}

// syncWithBucket uploads a file to the S3 bucket. It skips the upload if the object already holds the same MD5.
func (s *s3Handler) syncWithBucket(ctx context.Context, src, objectName string) (*PublishInfo, error) {
	localChecksum, err := fsx.FileMD5(src)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate local checksum: %w", err)
	}

	attr, err := s.client.StatObject(ctx, s.bucketConfig.Bucket, objectName, minio.StatObjectOptions{})
	if err == nil && localChecksum == attr.ETag {
		logx.As().Info().
			Str("id", s.Info()).
			Str("src", src).
			Str("object", objectName).
			Str("md5", attr.ETag).
			Str("bucket", s.bucketConfig.Bucket).
			Msg("File already exists in bucket, skipping upload")
		return &PublishInfo{
			Src:          src,
			Dest:         attr.Key,
			ChecksumType: "md5",
			Checksum:     attr.ETag,
			Size:         attr.Size,
			LastModified: attr.LastModified,
		}, nil
	}

	logx.As().Debug().
		Str("id", s.Info()).
		Str("src", src).
		Str("object", objectName).
		Str("local_checksum", localChecksum).
		Str("bucket", s.bucketConfig.Bucket).
		Msg("Uploading file to bucket")

	info, err := s.client.FPutObject(ctx, s.bucketConfig.Bucket, objectName, src, minio.PutObjectOptions{
		ContentType:    "application/json",
		SendContentMd5: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to %s: %w", s.Type(), err)
	}

	if err := s.verifyUpload(src, localChecksum, info); err != nil {
		return nil, err
	}

	logx.As().Info().
		Str("id", s.Info()).
		Str("src", src).
		Str("object", objectName).
		Str("checksum", info.ETag).
		Str("bucket", s.bucketConfig.Bucket).
		Str("size", core.BytesToString(info.Size)).
		Str("storage_type", s.Type()).
		Msg("File uploaded successfully to the bucket")

	return &PublishInfo{
		Src:          src,
		Dest:         info.Key,
		ChecksumType: "md5",
		Checksum:     info.ETag,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// verifyUpload compares the ETag of the uploaded object with the MD5 of the local file. The
// checksum is recomputed once on mismatch since the file may have changed during the upload.
func (s *s3Handler) verifyUpload(src string, localChecksum string, info minio.UploadInfo) error {
	if info.ETag == localChecksum {
		return nil
	}

	latestChecksum, err := fsx.FileMD5(src)
	if err != nil {
		return fmt.Errorf("failed to calculate local checksum: %w", err)
	}

	if info.ETag == latestChecksum {
		return nil
	}

	localInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to get local file info: %w", err)
	}

	return fmt.Errorf("checksum mismatch after upload: expected %s, got %s "+
		"(file_size_in_bucket = %d, file_size_local = %d)", latestChecksum, info.ETag, info.Size, localInfo.Size())
}

func newS3HandlerWithClient(id string, storageType string, client s3Client, bucketConfig config.BucketConfig, retryConfig config.RetryConfig) *s3Handler {
	s3 := &s3Handler{
		handler: &handler{
			id:          id,
			storageType: storageType,
			pathPrefix:  bucketConfig.Prefix,
		},
		client:       client,
		bucketConfig: bucketConfig,
		retryConfig:  retryConfig,
	}

	s3.handler.preSync = s3.waitForBucket
	s3.handler.syncFile = s3.syncWithBucket

	return s3
}

// newS3Handler initializes a new S3 handler with the provided configuration and retry settings.
func newS3Handler(id string, storageType string, bucketConfig config.BucketConfig, retryConfig config.RetryConfig) (*s3Handler, error) {
	if err := config.ValidateBucketConfig(bucketConfig); err != nil {
		return nil, fmt.Errorf("invalid %s configuration: %w", storageType, err)
	}

	client, err := minio.New(bucketConfig.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(bucketConfig.AccessKey, bucketConfig.SecretKey, ""),
		Secure:     bucketConfig.UseSSL,
		Region:     bucketConfig.Region,
		MaxRetries: retryConfig.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	logx.As().Debug().
		Str("id", id).
		Str("storage_type", storageType).
		Str("endpoint", bucketConfig.Endpoint).
		Str("bucket", bucketConfig.Bucket).
		Msg("Bucket storage handler created successfully")

	return newS3HandlerWithClient(id, storageType, client, bucketConfig, retryConfig), nil
}

// NewS3 creates a new S3 storage handler.
func NewS3(id string, bucketConfig config.BucketConfig, retryConfig config.RetryConfig) (Publisher, error) {
	s3, err := newS3Handler(id, TypeS3, bucketConfig, retryConfig)
	if err != nil {
		return nil, err
	}
	return s3, nil
}

// NewGCSWithS3 creates a new GCS storage handler using the S3-compatible API.
func NewGCSWithS3(id string, bucketConfig config.BucketConfig, retryConfig config.RetryConfig) (Publisher, error) {
	gcs, err := newS3Handler(id, TypeGCS, bucketConfig, retryConfig)
	if err != nil {
		return nil, err
	}
	return gcs, nil
}
