// Package estimate runs the pricing pipeline over one input table.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/cost"
	"github.com/smustafa75/aws-calc/pkg/services/normalize"
	"github.com/smustafa75/aws-calc/pkg/services/region"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

const Currency = "USD"

// PriceResolver is satisfied by *pricing.Resolver.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, req domain.PricingRequest, params domain.QueryParams) (decimal.Decimal, error)
}

type Estimator struct {
	resolver PriceResolver
	workers  int
}

// NewEstimator creates an estimator issuing at most workers lookups at a time.
func NewEstimator(resolver PriceResolver, workers int) *Estimator {
	if workers < 1 {
		workers = 1
	}
	return &Estimator{resolver: resolver, workers: workers}
}

type outcome struct {
	price decimal.Decimal
	fail  *domain.RowError
}

// Run prices every row of t. Row-local failures are collected in the estimate; a transport
// failure from any lookup cancels the remaining ones and is returned with no estimate.
func (e *Estimator) Run(ctx context.Context, t domain.Table, params domain.QueryParams) (*domain.Estimate, error) {
	logger := zerolog.Ctx(ctx)

	if err := table.RequireColumns(t, domain.ColumnInstanceType); err != nil {
		return nil, err
	}

	location, known := region.Resolve(params.Region)
	if !known {
		logger.Warn().
			Str("region", params.Region).
			Strs("available", region.Codes()).
			Msg("not a recognized AWS region code, continuing but pricing information may not be available")
	}
	if len(t.Rows) == 0 {
		logger.Warn().Msg("input table has no data rows")
	}

	requests, failures := normalize.NormalizeAll(t.Rows)
	logger.Info().
		Int("rows", len(t.Rows)).
		Int("valid", len(requests)).
		Str("location", location).
		Msg("fetching prices")

	outcomes, err := e.resolveAll(ctx, requests, params)
	if err != nil {
		return nil, err
	}

	est := &domain.Estimate{
		Params:      params,
		Location:    location,
		RegionKnown: known,
		Source:      t,
		Currency:    Currency,
	}

	agg := cost.NewAggregator()
	for i, req := range requests {
		if o := outcomes[i]; o.fail != nil {
			failures = append(failures, *o.fail)
			continue
		}
		row := cost.Price(req, outcomes[i].price)
		est.Rows = append(est.Rows, row)
		agg.Add(row)
	}

	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Row < failures[j].Row
	})
	est.Errors = failures
	est.Groups = agg.Groups()
	est.GrandTotal = agg.GrandTotal()

	if len(est.Rows) == 0 && len(requests) > 0 {
		logger.Warn().Msg("no pricing information was found for any instance type, " +
			"check region, instance types, operating system and tenancy")
	}
	return est, nil
}

// resolveAll looks up every request, keeping results aligned with the request order.
func (e *Estimator) resolveAll(
	ctx context.Context,
	requests []domain.PricingRequest,
	params domain.QueryParams,
) ([]outcome, error) {
	outcomes := make([]outcome, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			price, err := e.resolver.ResolvePrice(gctx, req, params)
			if err == nil {
				outcomes[i] = outcome{price: price}
				return nil
			}

			var rowErr *domain.RowError
			if errors.As(err, &rowErr) {
				outcomes[i] = outcome{fail: rowErr}
				return nil
			}
			return fmt.Errorf("row %d (%s): %w", req.Row, req.InstanceType, err)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
