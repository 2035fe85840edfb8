package adapters

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smustafa75/aws-calc/pkg/models/api"
	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/cost"
)

func TestMapEstimateRequestApiToTable(t *testing.T) {
	// Given
	req := api.EstimateRequest{
		Rows: []map[string]interface{}{
			{"inst_type": "t3.xlarge", "count": float64(2), "environment": "prod"},
			{"inst_type": "m5.large", "disk": nil},
		},
	}

	// When
	tbl := MapEstimateRequestApiToTable(req)

	// Then
	assert.Equal(t, []string{"count", "disk", "environment", "inst_type"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, domain.Number(2), tbl.Rows[0]["count"])
	assert.Equal(t, domain.String("t3.xlarge"), tbl.Rows[0]["inst_type"])
	assert.True(t, tbl.Rows[1].Get("disk").IsBlank())
	assert.True(t, tbl.Rows[1].Get("count").IsBlank())
}

func TestMapEstimateRequestApiToTable_ExplicitColumns(t *testing.T) {
	req := api.EstimateRequest{
		Columns: []string{"inst_type", "count"},
		Rows:    []map[string]interface{}{{"inst_type": "c5.large", "count": "3", "flag": true}},
	}

	tbl := MapEstimateRequestApiToTable(req)

	assert.Equal(t, []string{"inst_type", "count"}, tbl.Columns)
	assert.Equal(t, domain.String("true"), tbl.Rows[0]["flag"])
}

func TestMapEstimateDomainToApi(t *testing.T) {
	priced := cost.Price(domain.PricingRequest{
		Row: 1, InstanceType: "t3.xlarge", DiskType: "gp3", Environment: "prod", Count: 2,
	}, decimal.RequireFromString("0.2006"))
	groups, grand := cost.Aggregate([]domain.PricedRow{priced})
	est := &domain.Estimate{
		Params:      domain.QueryParams{Region: "me-south-1", OperatingSystem: "Linux", Tenancy: "Shared"},
		Location:    "Middle East (Bahrain)",
		RegionKnown: true,
		Rows:        []domain.PricedRow{priced},
		Errors: []domain.RowError{{
			Row: 2, InstanceType: "bad.type", Kind: domain.RowErrorValidation,
			Err: fmt.Errorf("%w: found %q", domain.ErrInvalidCount, "abc"),
		}},
		Groups:     groups,
		GrandTotal: grand,
		Currency:   "USD",
	}

	out := MapEstimateDomainToApi(est)

	assert.Equal(t, "288.86", out.GrandTotal)
	assert.Equal(t, []api.GroupTotal{{Environment: "prod", TotalMonthly: "288.86"}}, out.Groups)
	assert.Equal(t, api.PricedRow{
		Row: 1, InstanceType: "t3.xlarge", Environment: "prod", DiskType: "gp3", Count: 2,
		HourlyPrice: "0.2006", MonthlyPrice: "144.43", TotalMonthly: "288.86",
	}, out.Rows[0])
	assert.Equal(t, api.RowError{
		Row: 2, InstanceType: "bad.type", Kind: "validation", Label: "Invalid count",
		Message: `row 2 (bad.type): invalid count: found "abc"`,
	}, out.Errors[0])
}

func TestMapEstimateDomainToApi_EmptySlices(t *testing.T) {
	out := MapEstimateDomainToApi(&domain.Estimate{})

	assert.NotNil(t, out.Rows)
	assert.NotNil(t, out.Errors)
	assert.NotNil(t, out.Groups)
	assert.Equal(t, "0.00", out.GrandTotal)
}
