package commands

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/smustafa75/aws-calc/pkg/services/config"
	pricingstore "github.com/smustafa75/aws-calc/pkg/store/pricing"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

// AWSConnector resolves the profile's credentials once and shares them between
// the Price List client and the S3 client used for s3:// tables.
func AWSConnector(ctx context.Context, profile string) (*Backend, error) {
	awsCfg, err := config.LoadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Lookup: pricingstore.NewStoreFromConfig(*awsCfg),
		Tables: table.NewStore(table.WithObjectStore(s3.NewFromConfig(*awsCfg))),
	}, nil
}
