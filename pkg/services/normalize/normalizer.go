// Package normalize turns raw input rows into validated pricing requests.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

type rule struct {
	name  string
	apply func(row domain.RawRow, req *domain.PricingRequest) error
}

// Rules run in this order on every row, so the reported failure is always the first one hit.
var rules = []rule{
	{name: "instance type", apply: instanceType},
	{name: "count", apply: count},
	{name: "disk type", apply: diskType},
	{name: "disk size", apply: diskSize},
	{name: "environment", apply: environment},
}

// Normalize validates one raw row. index is the 1-based data row position.
// It returns either a request or a *domain.RowError, never both.
func Normalize(row domain.RawRow, index int) (domain.PricingRequest, error) {
	req := domain.PricingRequest{Row: index}
	for _, r := range rules {
		if err := r.apply(row, &req); err != nil {
			return domain.PricingRequest{}, &domain.RowError{
				Row:          index,
				InstanceType: req.InstanceType,
				Kind:         domain.RowErrorValidation,
				Err:          err,
			}
		}
	}
	return req, nil
}

// NormalizeAll validates rows in order. Row positions start at 1.
func NormalizeAll(rows []domain.RawRow) ([]domain.PricingRequest, []domain.RowError) {
	var (
		requests []domain.PricingRequest
		failures []domain.RowError
	)
	for i, row := range rows {
		req, err := Normalize(row, i+1)
		if err != nil {
			failures = append(failures, *err.(*domain.RowError))
			continue
		}
		requests = append(requests, req)
	}
	return requests, failures
}

func instanceType(row domain.RawRow, req *domain.PricingRequest) error {
	v := row.Get(domain.ColumnInstanceType)
	if v.Kind != domain.ValueString || v.IsBlank() {
		return domain.ErrMissingInstanceType
	}
	req.InstanceType = strings.TrimSpace(v.Str)
	return nil
}

func count(row domain.RawRow, req *domain.PricingRequest) error {
	v := row.Get(domain.ColumnCount)
	if v.IsBlank() {
		req.Count = 1
		return nil
	}

	var n int
	switch v.Kind {
	case domain.ValueNumber:
		if v.Num != math.Trunc(v.Num) || math.IsInf(v.Num, 0) || math.Abs(v.Num) > math.MaxInt32 {
			return fmt.Errorf("%w: found %q", domain.ErrInvalidCount, v.Text())
		}
		n = int(v.Num)
	default:
		parsed, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return fmt.Errorf("%w: found %q", domain.ErrInvalidCount, v.Text())
		}
		n = parsed
	}

	if n <= 0 {
		return fmt.Errorf("%w: found %q", domain.ErrNonPositiveCount, v.Text())
	}
	req.Count = n
	return nil
}

func diskType(row domain.RawRow, req *domain.PricingRequest) error {
	v := row.Get(domain.ColumnDiskType)
	if v.IsBlank() {
		req.DiskType = domain.DefaultDiskType
		return nil
	}
	req.DiskType = strings.TrimSpace(v.Text())
	return nil
}

// diskSize is informational; unparseable values are dropped rather than failing the row.
func diskSize(row domain.RawRow, req *domain.PricingRequest) error {
	v := row.Get(domain.ColumnDisk)
	switch v.Kind {
	case domain.ValueNumber:
		size := v.Num
		req.DiskSize = &size
	case domain.ValueString:
		if size, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			req.DiskSize = &size
		}
	}
	return nil
}

func environment(row domain.RawRow, req *domain.PricingRequest) error {
	v := row.Get(domain.ColumnEnvironment)
	if v.IsBlank() {
		req.Environment = domain.UngroupedEnvironment
		return nil
	}
	req.Environment = strings.TrimSpace(v.Text())
	return nil
}
