package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetPrices(ctx context.Context, filters FilterSet) ([]decimal.Decimal, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]decimal.Decimal), args.Error(1)
}

func prices(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

var params = domain.QueryParams{Region: "us-east-1", OperatingSystem: "Linux", Tenancy: "Shared"}

func request(instanceType string) domain.PricingRequest {
	return domain.PricingRequest{Row: 1, InstanceType: instanceType, Count: 1}
}

func TestBuildFilters(t *testing.T) {
	filters := BuildFilters(request("t3.xlarge"), params, "US East (N. Virginia)")

	assert.Equal(t, FilterSet{
		{Field: "tenancy", Value: "Shared"},
		{Field: "operatingSystem", Value: "Linux"},
		{Field: "preInstalledSw", Value: "NA"},
		{Field: "instanceType", Value: "t3.xlarge"},
		{Field: "location", Value: "US East (N. Virginia)"},
		{Field: "capacitystatus", Value: "Used"},
	}, filters)
	assert.Equal(t, "t3.xlarge", filters.Value(FieldInstanceType))
	assert.Equal(t, "", filters.Value("missing"))
}

func TestResolvePrice_SingleMatch(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.MatchedBy(func(fs FilterSet) bool {
		return fs.Value(FieldInstanceType) == "t3.xlarge" && fs.Value(FieldLocation) == "US East (N. Virginia)"
	})).Return(prices("0.2006"), nil)

	price, err := NewResolver(lookup).ResolvePrice(context.Background(), request("t3.xlarge"), params)

	require.NoError(t, err)
	assert.Equal(t, "0.2006", price.String())
	lookup.AssertExpectations(t)
}

func TestResolvePrice_NoMatch(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return([]decimal.Decimal{}, nil)

	_, err := NewResolver(lookup).ResolvePrice(context.Background(), request("bad.type"), params)

	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, domain.RowErrorLookupMiss, rowErr.Kind)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no price found for bad.type in us-east-1")
	assert.False(t, IsTransport(err))
}

func TestResolvePrice_AgreeingMatchesPickFirst(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(prices("0.0960", "0.096"), nil)

	price, err := NewResolver(lookup).ResolvePrice(context.Background(), request("m5.large"), params)

	require.NoError(t, err)
	assert.Equal(t, "0.096", price.String())
}

func TestResolvePrice_ConflictingMatchesAreAmbiguous(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(prices("0.096", "0.12"), nil)

	_, err := NewResolver(lookup).ResolvePrice(context.Background(), request("m5.large"), params)

	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, domain.RowErrorAmbiguous, rowErr.Kind)
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestResolvePrice_TransportFailure(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewResolver(lookup).ResolvePrice(context.Background(), request("m5.large"), params)

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	var rowErr *domain.RowError
	assert.False(t, errors.As(err, &rowErr))
}

func TestResolvePrice_TransportErrorKeepsHint(t *testing.T) {
	cause := &TransportError{Op: "GetProducts", Hint: "check credentials", Err: errors.New("AccessDenied")}
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(nil, cause)

	_, err := NewResolver(lookup).ResolvePrice(context.Background(), request("m5.large"), params)

	assert.Same(t, cause, err)
	assert.Contains(t, err.Error(), "check credentials")
}

type slowLookup struct{}

func (slowLookup) GetPrices(ctx context.Context, _ FilterSet) ([]decimal.Decimal, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResolvePrice_TimeoutIsTransport(t *testing.T) {
	r := NewResolver(slowLookup{}, WithTimeout(10*time.Millisecond))

	_, err := r.ResolvePrice(context.Background(), request("m5.large"), params)

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestResolvePrice_Memoization(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(prices("0.0416"), nil).Once()
	r := NewResolver(lookup, WithMemoization(true))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, err := r.ResolvePrice(context.Background(), request("t3.medium"), params)
			assert.NoError(t, err)
			assert.Equal(t, "0.0416", price.String())
		}()
	}
	wg.Wait()

	lookup.AssertNumberOfCalls(t, "GetPrices", 1)
}

func TestResolvePrice_WithoutMemoizationRepeatsLookups(t *testing.T) {
	lookup := new(mockLookup)
	lookup.On("GetPrices", mock.Anything, mock.Anything).Return(prices("0.0416"), nil)
	r := NewResolver(lookup)

	for i := 0; i < 3; i++ {
		_, err := r.ResolvePrice(context.Background(), request("t3.medium"), params)
		require.NoError(t, err)
	}

	lookup.AssertNumberOfCalls(t, "GetPrices", 3)
}
