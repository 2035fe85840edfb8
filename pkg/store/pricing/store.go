package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	catalog "github.com/smustafa75/aws-calc/pkg/services/pricing"
)

const (
	ServiceCode  = "AmazonEC2"
	CurrencyCode = "USD"
	pageSize     = 10
)

// EndpointRegion hosts the Price List API regardless of the region being priced.
const EndpointRegion = "us-east-1"

// ProductsAPI is the subset of the Price List client the store needs.
type ProductsAPI interface {
	GetProducts(
		ctx context.Context,
		params *awspricing.GetProductsInput,
		optFns ...func(*awspricing.Options),
	) (*awspricing.GetProductsOutput, error)
}

type Store struct {
	client ProductsAPI
}

func NewStore(client ProductsAPI) *Store {
	return &Store{client: client}
}

func NewStoreFromConfig(cfg aws.Config) *Store {
	return NewStore(awspricing.NewFromConfig(cfg, func(o *awspricing.Options) {
		o.Region = EndpointRegion
	}))
}

// GetPrices returns the on-demand USD hourly price of every product matching filters.
// Products whose terms cannot be read are skipped.
func (s *Store) GetPrices(ctx context.Context, filters catalog.FilterSet) ([]decimal.Decimal, error) {
	input := &awspricing.GetProductsInput{
		ServiceCode: aws.String(ServiceCode),
		Filters:     toSDKFilters(filters),
		MaxResults:  aws.Int32(pageSize),
	}

	logger := zerolog.Ctx(ctx)
	var prices []decimal.Decimal

	paginator := awspricing.NewGetProductsPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}

		for _, item := range page.PriceList {
			price, err := parseOnDemandPrice(item)
			if err != nil {
				logger.Warn().Err(err).
					Str("instance_type", filters.Value(catalog.FieldInstanceType)).
					Msg("skipping unreadable price list entry")
				continue
			}
			prices = append(prices, price)
		}
	}

	return prices, nil
}

func toSDKFilters(filters catalog.FilterSet) []types.Filter {
	out := make([]types.Filter, 0, len(filters))
	for _, f := range filters {
		out = append(out, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(f.Field),
			Value: aws.String(f.Value),
		})
	}
	return out
}

type priceListItem struct {
	Product struct {
		SKU string `json:"sku"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// parseOnDemandPrice reads terms.OnDemand.<term>.priceDimensions.<dim>.pricePerUnit.USD,
// taking the lowest term and dimension keys so repeated runs pick the same entry.
func parseOnDemandPrice(raw string) (decimal.Decimal, error) {
	var item priceListItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to decode price list entry: %w", err)
	}

	if len(item.Terms.OnDemand) == 0 {
		return decimal.Decimal{}, fmt.Errorf("product %s has no on-demand terms", item.Product.SKU)
	}
	term := item.Terms.OnDemand[firstKey(item.Terms.OnDemand)]

	if len(term.PriceDimensions) == 0 {
		return decimal.Decimal{}, fmt.Errorf("product %s has no price dimensions", item.Product.SKU)
	}
	dim := term.PriceDimensions[firstKey(term.PriceDimensions)]

	amount, ok := dim.PricePerUnit[CurrencyCode]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("product %s has no %s price", item.Product.SKU, CurrencyCode)
	}

	price, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("product %s has malformed price %q: %w", item.Product.SKU, amount, err)
	}
	return price, nil
}

func firstKey[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	hint := "check credentials, profile and network access"
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
			hint = "check your AWS credentials and the pricing:GetProducts permission"
		case "ThrottlingException":
			hint = "request rate exceeded, lower --workers and retry"
		case "InvalidParameterException":
			hint = "check the operating system and tenancy values"
		}
	}
	return &catalog.TransportError{Op: "GetProducts", Hint: hint, Err: err}
}
