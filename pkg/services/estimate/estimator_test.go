package estimate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/pricing"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

// fakeCatalog prices instance types by location.
type fakeCatalog struct {
	prices map[string]map[string][]string
	fail   map[string]error
	delay  func(instanceType string) time.Duration
	calls  atomic.Int32
}

func (f *fakeCatalog) GetPrices(ctx context.Context, filters pricing.FilterSet) ([]decimal.Decimal, error) {
	f.calls.Add(1)
	instanceType := filters.Value(pricing.FieldInstanceType)
	if f.delay != nil {
		select {
		case <-time.After(f.delay(instanceType)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.fail[instanceType]; ok {
		return nil, err
	}
	var out []decimal.Decimal
	for _, p := range f.prices[filters.Value(pricing.FieldLocation)][instanceType] {
		out = append(out, decimal.RequireFromString(p))
	}
	return out, nil
}

const bahrain = "Middle East (Bahrain)"

func newCatalog() *fakeCatalog {
	return &fakeCatalog{prices: map[string]map[string][]string{
		bahrain: {
			"t3.xlarge": {"0.2006"},
			"m5.large":  {"0.118"},
			"c5.large":  {"0.107", "0.111"},
		},
	}}
}

var params = domain.QueryParams{Region: "me-south-1", OperatingSystem: "Linux", Tenancy: "Shared", Profile: "lab"}

func row(cells map[string]string) domain.RawRow {
	r := domain.RawRow{}
	for k, v := range cells {
		r[k] = domain.Cell(v)
	}
	return r
}

func scenarioTable() domain.Table {
	return domain.Table{
		Columns: []string{"inst_type", "disk", "disk_type", "environment", "count"},
		Rows: []domain.RawRow{
			row(map[string]string{"inst_type": "t3.xlarge", "disk": "500", "disk_type": "gp3", "environment": "prod", "count": "2"}),
			row(map[string]string{"inst_type": "bad.type", "count": "abc"}),
		},
	}
}

func TestRun_EndToEndScenario(t *testing.T) {
	// Given
	est := NewEstimator(pricing.NewResolver(newCatalog()), 1)

	// When
	result, err := est.Run(context.Background(), scenarioTable(), params)

	// Then
	require.NoError(t, err)
	assert.Equal(t, bahrain, result.Location)
	assert.True(t, result.RegionKnown)
	assert.Equal(t, "USD", result.Currency)

	require.Len(t, result.Rows, 1)
	priced := result.Rows[0]
	assert.Equal(t, "t3.xlarge", priced.Request.InstanceType)
	assert.Equal(t, "prod", priced.Request.Environment)
	assert.Equal(t, "288.86", priced.Cost.Total.StringFixed(2))

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.ErrorIs(t, &result.Errors[0], domain.ErrInvalidCount)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "prod", result.Groups[0].Group)
	assert.Equal(t, "288.86", result.Groups[0].Total.StringFixed(2))
	assert.Equal(t, "288.86", result.GrandTotal.StringFixed(2))
}

func TestRun_ErrorsInRowOrder(t *testing.T) {
	tbl := domain.Table{
		Columns: []string{"inst_type", "environment"},
		Rows: []domain.RawRow{
			row(map[string]string{"inst_type": "nope.large"}),
			row(map[string]string{"inst_type": ""}),
			row(map[string]string{"inst_type": "c5.large"}),
			row(map[string]string{"inst_type": "m5.large", "environment": "dev"}),
		},
	}

	result, err := NewEstimator(pricing.NewResolver(newCatalog()), 3).Run(context.Background(), tbl, params)

	require.NoError(t, err)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{result.Errors[0].Row, result.Errors[1].Row, result.Errors[2].Row})
	assert.Equal(t, domain.RowErrorLookupMiss, result.Errors[0].Kind)
	assert.Equal(t, domain.RowErrorValidation, result.Errors[1].Kind)
	assert.Equal(t, domain.RowErrorAmbiguous, result.Errors[2].Kind)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "dev", result.Groups[0].Group)
}

func TestRun_Idempotent(t *testing.T) {
	est := NewEstimator(pricing.NewResolver(newCatalog()), 2)

	first, err := est.Run(context.Background(), scenarioTable(), params)
	require.NoError(t, err)
	second, err := est.Run(context.Background(), scenarioTable(), params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_RemovingARowOnlyDropsThatRow(t *testing.T) {
	full := domain.Table{
		Columns: []string{"inst_type", "environment", "count"},
		Rows: []domain.RawRow{
			row(map[string]string{"inst_type": "t3.xlarge", "environment": "prod", "count": "1"}),
			row(map[string]string{"inst_type": "m5.large", "environment": "prod", "count": "3"}),
			row(map[string]string{"inst_type": "m5.large", "environment": "dev", "count": "1"}),
		},
	}
	reduced := domain.Table{Columns: full.Columns, Rows: []domain.RawRow{full.Rows[0], full.Rows[2]}}
	est := NewEstimator(pricing.NewResolver(newCatalog()), 1)

	a, err := est.Run(context.Background(), full, params)
	require.NoError(t, err)
	b, err := est.Run(context.Background(), reduced, params)
	require.NoError(t, err)

	require.Len(t, b.Rows, 2)
	assert.True(t, a.Rows[0].Cost.Total.Equal(b.Rows[0].Cost.Total))
	assert.True(t, a.Rows[2].Cost.Total.Equal(b.Rows[1].Cost.Total))
	removed := a.Rows[1].Cost.Total
	assert.True(t, a.GrandTotal.Sub(removed).Equal(b.GrandTotal))
}

func TestRun_UnknownRegionSurfacesLookupMisses(t *testing.T) {
	p := params
	p.Region = "me-sout-1"

	result, err := NewEstimator(pricing.NewResolver(newCatalog()), 1).Run(context.Background(), scenarioTable(), p)

	require.NoError(t, err)
	assert.False(t, result.RegionKnown)
	assert.Equal(t, "Unknown region: me-sout-1", result.Location)
	assert.Empty(t, result.Rows)
	require.Len(t, result.Errors, 2)
	assert.ErrorIs(t, &result.Errors[0], pricing.ErrNotFound)
	assert.True(t, result.GrandTotal.IsZero())
}

func TestRun_TransportFailureAbortsRun(t *testing.T) {
	catalog := newCatalog()
	catalog.fail = map[string]error{"m5.large": errors.New("dial tcp: connection refused")}
	catalog.delay = func(instanceType string) time.Duration {
		if instanceType == "m5.large" {
			return 0
		}
		return time.Second
	}

	rows := []domain.RawRow{row(map[string]string{"inst_type": "m5.large"})}
	for i := 0; i < 20; i++ {
		rows = append(rows, row(map[string]string{"inst_type": "t3.xlarge", "count": fmt.Sprint(i + 1)}))
	}
	tbl := domain.Table{Columns: []string{"inst_type", "count"}, Rows: rows}

	start := time.Now()
	result, err := NewEstimator(pricing.NewResolver(catalog), 4).Run(context.Background(), tbl, params)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, pricing.IsTransport(err))
	assert.Contains(t, err.Error(), "row 1 (m5.large)")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ConcurrentResultsKeepInputOrder(t *testing.T) {
	catalog := newCatalog()
	catalog.delay = func(instanceType string) time.Duration {
		if instanceType == "t3.xlarge" {
			return 30 * time.Millisecond
		}
		return time.Millisecond
	}
	tbl := domain.Table{
		Columns: []string{"inst_type", "environment"},
		Rows: []domain.RawRow{
			row(map[string]string{"inst_type": "t3.xlarge", "environment": "slow"}),
			row(map[string]string{"inst_type": "m5.large", "environment": "fast"}),
			row(map[string]string{"inst_type": "t3.xlarge", "environment": "slow"}),
		},
	}

	result, err := NewEstimator(pricing.NewResolver(catalog), 3).Run(context.Background(), tbl, params)

	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{result.Rows[0].Request.Row, result.Rows[1].Request.Row, result.Rows[2].Request.Row})
	require.Len(t, result.Groups, 2)
	assert.Equal(t, "slow", result.Groups[0].Group)
	assert.Equal(t, "fast", result.Groups[1].Group)
}

func TestRun_MemoizedDuplicates(t *testing.T) {
	catalog := newCatalog()
	tbl := domain.Table{
		Columns: []string{"inst_type"},
		Rows: []domain.RawRow{
			row(map[string]string{"inst_type": "m5.large"}),
			row(map[string]string{"inst_type": "m5.large"}),
			row(map[string]string{"inst_type": "m5.large"}),
		},
	}

	_, err := NewEstimator(pricing.NewResolver(catalog, pricing.WithMemoization(true)), 1).
		Run(context.Background(), tbl, params)

	require.NoError(t, err)
	assert.Equal(t, int32(1), catalog.calls.Load())
}

func TestRun_MissingInstanceTypeColumn(t *testing.T) {
	tbl := domain.Table{Columns: []string{"instance", "count"}}

	_, err := NewEstimator(pricing.NewResolver(newCatalog()), 1).Run(context.Background(), tbl, params)

	assert.ErrorIs(t, err, table.ErrMissingColumn)
}

func TestRun_EmptyTable(t *testing.T) {
	tbl := domain.Table{Columns: []string{"inst_type"}}

	result, err := NewEstimator(pricing.NewResolver(newCatalog()), 1).Run(context.Background(), tbl, params)

	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Groups)
	assert.True(t, result.GrandTotal.IsZero())
}
