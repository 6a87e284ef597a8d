package config

import (
	"fmt"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/spf13/viper"
	"os"
	"strings"
)

// Config holds the global configuration for the application.
type Config struct {
	// Log contains logging-related configuration.
	Log *logx.LoggingConfig
	// Scan contains the defaults of the scan command.
	Scan *ScanConfig
	// Compare contains the defaults of the compare command.
	Compare *CompareConfig
	// Storage contains the backends finished manifests are published to.
	Storage *StorageConfig
	// Retry contains the retry configuration of the storage backends.
	Retry *RetryConfig
}

// ScanConfig holds the defaults of a scan.
type ScanConfig struct {
	// Exclude is a list of glob patterns of paths to skip.
	Exclude []string
	// Total is the byte budget progress is measured against. Zero uses the volume capacity.
	Total int64
}

// CompareConfig holds the defaults of a manifest comparison.
type CompareConfig struct {
	// PrefixLength is the number of leading path characters ignored when matching paths.
	PrefixLength int
}

// RetryConfig holds the configuration for retrying failed operations.
type RetryConfig struct {
	// Limit is the maximum number of retry attempts.
	Limit int
}

// StorageConfig holds the configuration for storage backends.
type StorageConfig struct {
	// S3 contains the S3 bucket configuration.
	S3 *BucketConfig
	// GCS contains the Google Cloud Storage bucket configuration.
	GCS *BucketConfig
	// LocalDir contains the local directory configuration.
	LocalDir *LocalDirConfig
}

// BucketConfig holds the configuration for an S3 or GCS bucket.
type BucketConfig struct {
	// Enabled indicates whether the bucket is enabled.
	Enabled bool
	// Bucket is the name of the bucket.
	Bucket string
	// Region is the region of the bucket.
	Region string
	// Prefix is the prefix for objects in the bucket.
	Prefix string
	// Endpoint is the endpoint for the bucket.
	Endpoint string
	// AccessKey is the name of the environment variable holding the access key.
	AccessKey string
	// SecretKey is the name of the environment variable holding the secret key.
	SecretKey string
	// UseSSL enables SSL for the bucket connection.
	UseSSL bool
}

// LocalDirConfig holds the configuration for a local directory.
type LocalDirConfig struct {
	// Enabled indicates whether the local directory is enabled.
	Enabled bool
	// Path is the path to the local directory.
	Path string
	// Mode is the file mode for the directory.
	Mode os.FileMode
}

var config = defaults()

func defaults() Config {
	return Config{
		Log: &logx.LoggingConfig{
			Level:          "Info",
			ConsoleLogging: true,
			FileLogging:    false,
		},
		Scan:    &ScanConfig{},
		Compare: &CompareConfig{PrefixLength: 3},
		Storage: &StorageConfig{},
		Retry:   &RetryConfig{Limit: 3},
	}
}

// Initialize loads the configuration from the specified file.
//
// Parameters:
//   - path: The path to the configuration file. An empty path skips the file and keeps the
//     defaults, environment overrides still apply.
//
// Returns:
//   - An error if the configuration cannot be loaded.
func Initialize(path string) error {
	config = defaults()

	viper.Reset()
	viper.SetEnvPrefix("fsscan")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	initializeNestedStructs()
	overrideWithEnvVars()

	return nil
}

// setDefaults registers the keys that can be overridden from the environment without a
// configuration file.
func setDefaults() {
	viper.SetDefault("log.level", config.Log.Level)
	viper.SetDefault("log.consolelogging", config.Log.ConsoleLogging)
	viper.SetDefault("log.filelogging", config.Log.FileLogging)
	viper.SetDefault("scan.total", config.Scan.Total)
	viper.SetDefault("compare.prefixlength", config.Compare.PrefixLength)
	viper.SetDefault("retry.limit", config.Retry.Limit)
}

// initializeNestedStructs ensures all nested structs are initialized.
func initializeNestedStructs() {
	if config.Log == nil {
		config.Log = defaults().Log
	}
	if config.Scan == nil {
		config.Scan = &ScanConfig{}
	}
	if config.Compare == nil {
		config.Compare = &CompareConfig{}
	}
	if config.Retry == nil {
		config.Retry = &RetryConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Storage.S3 == nil {
		config.Storage.S3 = &BucketConfig{}
	}
	if config.Storage.GCS == nil {
		config.Storage.GCS = &BucketConfig{}
	}
	if config.Storage.LocalDir == nil {
		config.Storage.LocalDir = &LocalDirConfig{}
	}
}

// overrideWithEnvVars resolves the credential fields, which name environment variables,
// to the values of those variables.
func overrideWithEnvVars() {
	for _, bucket := range []*BucketConfig{config.Storage.S3, config.Storage.GCS} {
		if bucket.AccessKey != "" {
			bucket.AccessKey = os.Getenv(bucket.AccessKey)
		}
		if bucket.SecretKey != "" {
			bucket.SecretKey = os.Getenv(bucket.SecretKey)
		}
	}
}

// Get returns the loaded configuration.
//
// Returns:
//   - The global configuration.
func Get() Config {
	return config
}
