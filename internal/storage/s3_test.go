package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mockS3Client is a mock implementation of the s3Client interface.
type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *mockS3Client) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *mockS3Client) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockS3Client) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func withoutRetryDelay(t *testing.T) {
	previous := bucketRetryDelay
	bucketRetryDelay = time.Millisecond
	t.Cleanup(func() { bucketRetryDelay = previous })
}

func TestS3Handler_EnsureBucketExists(t *testing.T) {
	mockClient := new(mockS3Client)
	bucketName := "test-bucket"
	bucketConfig := config.BucketConfig{Bucket: bucketName, Region: "us-east-1"}
	h := newS3HandlerWithClient("s3-handler", TypeS3, mockClient, bucketConfig, config.RetryConfig{Limit: 1})

	// Test case: Bucket already exists
	mockClient.On("BucketExists", mock.Anything, bucketName).Return(true, nil).Once()
	err := h.ensureBucketExists(context.Background())
	assert.NoError(t, err)
	assert.True(t, h.bucketReady)

	// Test case: Bucket existence is cached
	err = h.ensureBucketExists(context.Background())
	assert.NoError(t, err)

	// Test case: Bucket does not exist, creation succeeds
	mockClient.On("BucketExists", mock.Anything, bucketName).Return(false, nil).Once()
	mockClient.On("MakeBucket", mock.Anything, bucketName, minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil).Once()
	h.bucketReady = false
	err = h.ensureBucketExists(context.Background())
	assert.NoError(t, err)
	assert.True(t, h.bucketReady)

	// Test case: Bucket creation fails
	mockClient.On("BucketExists", mock.Anything, bucketName).Return(false, nil).Once()
	mockClient.On("MakeBucket", mock.Anything, bucketName, mock.Anything).Return(errors.New("creation failed")).Once()
	h.bucketReady = false
	err = h.ensureBucketExists(context.Background())
	assert.Error(t, err)
	assert.False(t, h.bucketReady)

	mockClient.AssertExpectations(t)
}

func TestS3Handler_WaitForBucket(t *testing.T) {
	withoutRetryDelay(t)
	bucketName := "test-bucket"

	t.Run("succeeds after transient failures", func(t *testing.T) {
		mockClient := new(mockS3Client)
		h := newS3HandlerWithClient("s3-handler", TypeS3, mockClient, config.BucketConfig{Bucket: bucketName}, config.RetryConfig{Limit: 3})
		mockClient.On("BucketExists", mock.Anything, bucketName).Return(false, errors.New("connection refused")).Twice()
		mockClient.On("BucketExists", mock.Anything, bucketName).Return(true, nil).Once()

		assert.NoError(t, h.waitForBucket(context.Background()))
		mockClient.AssertNumberOfCalls(t, "BucketExists", 3)
	})

	t.Run("gives up at the retry limit", func(t *testing.T) {
		mockClient := new(mockS3Client)
		h := newS3HandlerWithClient("s3-handler", TypeGCS, mockClient, config.BucketConfig{Bucket: bucketName}, config.RetryConfig{Limit: 2})
		mockClient.On("BucketExists", mock.Anything, bucketName).Return(false, errors.New("connection refused"))

		err := h.waitForBucket(context.Background())
		assert.ErrorContains(t, err, "not reachable after 2 attempts")
		mockClient.AssertNumberOfCalls(t, "BucketExists", 2)
	})

	t.Run("zero limit still tries once", func(t *testing.T) {
		mockClient := new(mockS3Client)
		h := newS3HandlerWithClient("s3-handler", TypeS3, mockClient, config.BucketConfig{Bucket: bucketName}, config.RetryConfig{})
		mockClient.On("BucketExists", mock.Anything, bucketName).Return(true, nil).Once()

		assert.NoError(t, h.waitForBucket(context.Background()))
	})
}

func TestS3Handler_SyncWithBucket(t *testing.T) {
	tempDir := t.TempDir()

	mockClient := new(mockS3Client)
	bucketName := "test-bucket"
	bucketConfig := config.BucketConfig{Bucket: bucketName}
	h := newS3HandlerWithClient("s3-handler", TypeS3, mockClient, bucketConfig, config.RetryConfig{Limit: 1})

	srcFile := filepath.Join(tempDir, "manifest.json")

	// Create a source file
	err := os.WriteFile(srcFile, []byte("[]"), 0644)
	assert.NoError(t, err)
	localChecksum, err := fsx.FileMD5(srcFile)
	assert.NoError(t, err)

	objectName := "manifests/manifest.json"

	// Test case: File already exists in bucket with the same checksum
	mockClient.On("StatObject", mock.Anything, bucketName, objectName, mock.Anything).Return(minio.ObjectInfo{
		ETag: localChecksum,
		Key:  objectName,
	}, nil).Once()
	info, err := h.syncWithBucket(context.Background(), srcFile, objectName)
	assert.NoError(t, err)
	assert.NotNil(t, info)
	assert.Equal(t, objectName, info.Dest)

	// Test case: File upload succeeds
	mockClient.On("StatObject", mock.Anything, bucketName, objectName, mock.Anything).Return(minio.ObjectInfo{}, fmt.Errorf("not found")).Once()
	mockClient.On("FPutObject", mock.Anything, bucketName, objectName, srcFile, mock.Anything).Return(minio.UploadInfo{
		ETag: localChecksum,
		Key:  objectName,
		Size: 2,
	}, nil).Once()
	info, err = h.syncWithBucket(context.Background(), srcFile, objectName)
	assert.NoError(t, err)
	assert.NotNil(t, info)
	assert.Equal(t, objectName, info.Dest)
	assert.Equal(t, int64(2), info.Size)

	// Test case: File upload fails
	mockClient.On("StatObject", mock.Anything, bucketName, objectName, mock.Anything).Return(minio.ObjectInfo{}, fmt.Errorf("not found")).Once()
	mockClient.On("FPutObject", mock.Anything, bucketName, objectName, srcFile, mock.Anything).Return(minio.UploadInfo{}, errors.New("upload failed")).Once()
	info, err = h.syncWithBucket(context.Background(), srcFile, objectName)
	assert.Error(t, err)
	assert.Nil(t, info)

	// Test case: File upload fails because of checksum mismatch
	mockClient.On("StatObject", mock.Anything, bucketName, objectName, mock.Anything).Return(minio.ObjectInfo{}, fmt.Errorf("not found")).Once()
	mockClient.On("FPutObject", mock.Anything, bucketName, objectName, srcFile, mock.Anything).Return(minio.UploadInfo{
		ETag: "invalid",
		Key:  objectName,
	}, nil).Once()
	info, err = h.syncWithBucket(context.Background(), srcFile, objectName)
	assert.ErrorContains(t, err, "checksum mismatch after upload")
	assert.Nil(t, info)
}

func TestS3Handler_Put(t *testing.T) {
	tempDir := t.TempDir()
	srcFile := filepath.Join(tempDir, "conflicts.json")
	require.NoError(t, os.WriteFile(srcFile, []byte("[]"), 0644))
	localChecksum, err := fsx.FileMD5(srcFile)
	require.NoError(t, err)

	mockClient := new(mockS3Client)
	bucketConfig := config.BucketConfig{Bucket: "test-bucket", Prefix: "nas01"}
	h := newS3HandlerWithClient("s3", TypeS3, mockClient, bucketConfig, config.RetryConfig{Limit: 1})

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil).Once()
	mockClient.On("StatObject", mock.Anything, "test-bucket", "nas01/conflicts.json", mock.Anything).Return(minio.ObjectInfo{}, errors.New("not found")).Once()
	mockClient.On("FPutObject", mock.Anything, "test-bucket", "nas01/conflicts.json", srcFile, mock.Anything).Return(minio.UploadInfo{
		ETag: localChecksum,
		Key:  "nas01/conflicts.json",
	}, nil).Once()

	info, err := h.Put(context.Background(), srcFile)
	require.NoError(t, err)
	assert.Equal(t, "nas01/conflicts.json", info.Dest)
	mockClient.AssertExpectations(t)
}

func TestNewS3_InvalidConfig(t *testing.T) {
	_, err := NewS3("s3", config.BucketConfig{Bucket: "b"}, config.RetryConfig{})
	assert.ErrorContains(t, err, "missing AccessKey")

	_, err = NewGCSWithS3("gcs", config.BucketConfig{}, config.RetryConfig{})
	assert.Error(t, err)
}

func TestNewS3_ValidConfig(t *testing.T) {
	p, err := NewS3("s3", config.BucketConfig{
		Bucket:    "manifests",
		Region:    "us-east-1",
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}, config.RetryConfig{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, TypeS3, p.Type())
	assert.Equal(t, "s3", p.Info())
}
