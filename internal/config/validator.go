package config

import (
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/pkg/errors"
)

// ValidateBucketConfig validates the S3 bucket configuration.
//
// Parameters:
//   - bucketConfig: The configuration to validate.
//
// Returns:
//   - An error if any required field is missing, otherwise nil.
func ValidateBucketConfig(bucketConfig BucketConfig) error {
	if bucketConfig.AccessKey == "" {
		return errors.New("missing AccessKey in configuration")
	}
	if bucketConfig.SecretKey == "" {
		return errors.New("missing SecretKey in configuration")
	}
	if bucketConfig.Bucket == "" {
		return errors.New("missing Bucket in configuration")
	}
	if bucketConfig.Region == "" {
		return errors.New("missing Region in configuration")
	}
	if bucketConfig.Endpoint == "" {
		return errors.New("missing Endpoint in configuration")
	}
	return nil
}

// ValidateLocalDirConfig validates the local directory configuration.
func ValidateLocalDirConfig(dirConfig LocalDirConfig) error {
	if dirConfig.Path == "" {
		return errors.New("missing Path in configuration")
	}
	return nil
}

// ValidateScanOptions checks the files named on the scan command line.
//
// Parameters:
//   - input: The prior manifest to resume from, may be empty.
//   - output: The manifest to write, may be empty.
//   - force: Whether an existing output may be overwritten.
//
// Returns:
//   - An error if the input is missing or the output exists without force, otherwise nil.
func ValidateScanOptions(input string, output string, force bool) error {
	if input != "" {
		if _, exists := fsx.PathExists(input); !exists {
			return errors.Errorf("input file not found: %s", input)
		}
	}

	return validateOutput(output, force)
}

// ValidateCompareOptions checks the files named on the compare command line.
//
// Returns:
//   - An error if a manifest is missing, the output exists without force or the prefix
//     length is negative, otherwise nil.
func ValidateCompareOptions(primary string, secondary string, output string, force bool, prefixLength int) error {
	for _, p := range []string{primary, secondary} {
		if p == "" {
			return errors.New("missing manifest path")
		}
		if _, exists := fsx.PathExists(p); !exists {
			return errors.Errorf("file not found: %s", p)
		}
	}

	if prefixLength < 0 {
		return errors.Errorf("invalid prefix length: %d", prefixLength)
	}

	return validateOutput(output, force)
}

func validateOutput(output string, force bool) error {
	if output == "" || force {
		return nil
	}

	if _, exists := fsx.PathExists(output); exists {
		return errors.Errorf("output file already exists: %s", output)
	}

	return nil
}
