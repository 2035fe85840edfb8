package config

import (
	"context"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// FallbackRegion is used when the profile names no region. The Price List client
// always targets its own endpoint region.
const FallbackRegion = "us-east-1"

var (
	ErrProfileNotFound = errors.New("AWS profile not found")
	ErrNoCredentials   = errors.New("AWS credentials not found")
)

// LoadConfig builds an SDK config for profile and checks that credentials resolve,
// so a bad identity fails before the first lookup.
func LoadConfig(ctx context.Context, profile string) (*awssdk.Config, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	opts = append(opts, config.WithDefaultRegion(FallbackRegion))

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		var notExist config.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrProfileNotFound, profile)
		}
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if _, err = awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("%w for profile %s: %v", ErrNoCredentials, profile, err)
	}

	return &awsCfg, nil
}
