package adapters

import (
	"fmt"
	"sort"

	"github.com/smustafa75/aws-calc/pkg/models/api"
	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/estimate"
	"github.com/smustafa75/aws-calc/pkg/services/region"
)

// MapEstimateRequestApiToTable converts JSON rows into an input table. JSON numbers
// stay numeric, null becomes absent and other scalars are kept as text.
func MapEstimateRequestApiToTable(req api.EstimateRequest) domain.Table {
	columns := req.Columns
	if len(columns) == 0 {
		columns = unionColumns(req.Rows)
	}

	t := domain.Table{Columns: columns, Rows: make([]domain.RawRow, 0, len(req.Rows))}
	for _, in := range req.Rows {
		row := make(domain.RawRow, len(in))
		for k, v := range in {
			row[k] = mapJSONValue(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func mapJSONValue(v interface{}) domain.Value {
	switch val := v.(type) {
	case nil:
		return domain.Absent()
	case float64:
		return domain.Number(val)
	case string:
		return domain.Cell(val)
	default:
		return domain.Cell(fmt.Sprint(val))
	}
}

func unionColumns(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

func MapEstimateDomainToApi(est *domain.Estimate) api.Estimate {
	out := api.Estimate{
		Region:          est.Params.Region,
		Location:        est.Location,
		RegionKnown:     est.RegionKnown,
		OperatingSystem: est.Params.OperatingSystem,
		Tenancy:         est.Params.Tenancy,
		Currency:        est.Currency,
		Rows:            []api.PricedRow{},
		Errors:          []api.RowError{},
		Groups:          []api.GroupTotal{},
		GrandTotal:      est.GrandTotal.StringFixed(2),
	}

	for _, r := range est.Rows {
		out.Rows = append(out.Rows, MapPricedRowDomainToApi(r))
	}
	for i := range est.Errors {
		out.Errors = append(out.Errors, MapRowErrorDomainToApi(&est.Errors[i]))
	}
	for _, g := range est.Groups {
		out.Groups = append(out.Groups, api.GroupTotal{
			Environment:  g.Group,
			TotalMonthly: g.Total.StringFixed(2),
		})
	}
	return out
}

func MapPricedRowDomainToApi(r domain.PricedRow) api.PricedRow {
	return api.PricedRow{
		Row:          r.Request.Row,
		InstanceType: r.Request.InstanceType,
		Environment:  r.Request.Environment,
		DiskType:     r.Request.DiskType,
		DiskSize:     r.Request.DiskSize,
		Count:        r.Request.Count,
		HourlyPrice:  r.Cost.Hourly.StringFixed(4),
		MonthlyPrice: r.Cost.Monthly.StringFixed(2),
		TotalMonthly: r.Cost.Total.StringFixed(2),
	}
}

func MapRowErrorDomainToApi(e *domain.RowError) api.RowError {
	return api.RowError{
		Row:          e.Row,
		InstanceType: e.InstanceType,
		Kind:         string(e.Kind),
		Label:        estimate.FailureLabel(e),
		Message:      e.Error(),
	}
}

func MapRegionDomainToApi(r region.Region) api.Region {
	return api.Region{Code: r.Code, Location: r.Location}
}
