package pricing

import (
	"strings"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

// Catalog attribute names used by the EC2 price list.
const (
	FieldTenancy         = "tenancy"
	FieldOperatingSystem = "operatingSystem"
	FieldPreInstalledSw  = "preInstalledSw"
	FieldInstanceType    = "instanceType"
	FieldLocation        = "location"
	FieldCapacityStatus  = "capacitystatus"
)

const (
	noPreInstalledSoftware = "NA"
	capacityUsed           = "Used"
)

type Filter struct {
	Field string
	Value string
}

// FilterSet is an ordered set of exact-match catalog filters.
type FilterSet []Filter

// Key identifies the filter tuple, used for memoization.
func (fs FilterSet) Key() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Field + "=" + f.Value
	}
	return strings.Join(parts, "|")
}

func (fs FilterSet) Value(field string) string {
	for _, f := range fs {
		if f.Field == field {
			return f.Value
		}
	}
	return ""
}

// BuildFilters selects the on-demand, shared-capacity price of one instance type.
func BuildFilters(req domain.PricingRequest, params domain.QueryParams, location string) FilterSet {
	return FilterSet{
		{Field: FieldTenancy, Value: params.Tenancy},
		{Field: FieldOperatingSystem, Value: params.OperatingSystem},
		{Field: FieldPreInstalledSw, Value: noPreInstalledSoftware},
		{Field: FieldInstanceType, Value: req.InstanceType},
		{Field: FieldLocation, Value: location},
		{Field: FieldCapacityStatus, Value: capacityUsed},
	}
}
