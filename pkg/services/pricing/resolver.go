// Package pricing resolves a unit price for each pricing request against an external catalog.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/region"
)

const DefaultTimeout = 30 * time.Second

// Lookup is the catalog capability. It returns the hourly price of every matching product;
// an empty slice means nothing matched. Any error is treated as a transport failure.
type Lookup interface {
	GetPrices(ctx context.Context, filters FilterSet) ([]decimal.Decimal, error)
}

type Option func(*Resolver)

// WithTimeout bounds each catalog call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithMemoization reuses lookup results for identical filter sets within one resolver.
func WithMemoization(enabled bool) Option {
	return func(r *Resolver) { r.memoize = enabled }
}

type Resolver struct {
	lookup  Lookup
	timeout time.Duration
	memoize bool

	group singleflight.Group
	mu    sync.Mutex
	memo  map[string][]decimal.Decimal
}

func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		timeout: DefaultTimeout,
		memo:    make(map[string][]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePrice returns the hourly unit price for one request. Row-local failures come back as
// *domain.RowError (lookup miss or ambiguity); a *TransportError means the run must stop.
func (r *Resolver) ResolvePrice(
	ctx context.Context,
	req domain.PricingRequest,
	params domain.QueryParams,
) (decimal.Decimal, error) {
	location, _ := region.Resolve(params.Region)
	filters := BuildFilters(req, params, location)

	prices, err := r.prices(ctx, filters)
	if err != nil {
		return decimal.Decimal{}, err
	}

	zerolog.Ctx(ctx).Debug().
		Int("row", req.Row).
		Str("instance_type", req.InstanceType).
		Str("location", location).
		Int("matches", len(prices)).
		Msg("catalog lookup")

	price, err := selectPrice(prices)
	switch {
	case errors.Is(err, ErrNotFound):
		return decimal.Decimal{}, &domain.RowError{
			Row:          req.Row,
			InstanceType: req.InstanceType,
			Kind:         domain.RowErrorLookupMiss,
			Err:          fmt.Errorf("%w for %s in %s", ErrNotFound, req.InstanceType, params.Region),
		}
	case errors.Is(err, ErrAmbiguous):
		return decimal.Decimal{}, &domain.RowError{
			Row:          req.Row,
			InstanceType: req.InstanceType,
			Kind:         domain.RowErrorAmbiguous,
			Err:          err,
		}
	}
	return price, nil
}

func (r *Resolver) prices(ctx context.Context, filters FilterSet) ([]decimal.Decimal, error) {
	if !r.memoize {
		return r.fetch(ctx, filters)
	}

	key := filters.Key()
	r.mu.Lock()
	cached, ok := r.memo[key]
	r.mu.Unlock()
	if ok {
		zerolog.Ctx(ctx).Debug().Str("filters", key).Msg("reusing catalog result")
		return cached, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.Lock()
		cached, ok := r.memo[key]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		prices, err := r.fetch(ctx, filters)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.memo[key] = prices
		r.mu.Unlock()
		return prices, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]decimal.Decimal), nil
}

func (r *Resolver) fetch(ctx context.Context, filters FilterSet) ([]decimal.Decimal, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	prices, err := r.lookup.GetPrices(ctx, filters)
	if err == nil {
		return prices, nil
	}

	var te *TransportError
	switch {
	case errors.As(err, &te):
		return nil, err
	case errors.Is(err, context.DeadlineExceeded):
		return nil, &TransportError{Op: "lookup", Hint: "request timed out, check network access", Err: err}
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		return nil, &TransportError{Op: "lookup", Err: err}
	}
}

// selectPrice accepts several matches only when they all agree on the price.
func selectPrice(prices []decimal.Decimal) (decimal.Decimal, error) {
	if len(prices) == 0 {
		return decimal.Decimal{}, ErrNotFound
	}

	first := prices[0]
	for _, p := range prices[1:] {
		if !p.Equal(first) {
			return decimal.Decimal{}, fmt.Errorf("%w: %d matches with prices %s",
				ErrAmbiguous, len(prices), joinPrices(prices))
		}
	}
	return first, nil
}

func joinPrices(prices []decimal.Decimal) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
