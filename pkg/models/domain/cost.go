package domain

import "github.com/shopspring/decimal"

const (
	// UngroupedEnvironment is the group key for rows without an environment.
	UngroupedEnvironment = "Unspecified"
	// DefaultDiskType applies when a row has no disk_type.
	DefaultDiskType = "gp3"
)

// Input column names.
const (
	ColumnInstanceType = "inst_type"
	ColumnDisk         = "disk"
	ColumnDiskType     = "disk_type"
	ColumnEnvironment  = "environment"
	ColumnCount        = "count"
)

// PricingRequest is a validated input row. Only the normalizer creates it.
type PricingRequest struct {
	Row          int // 1-based data row position
	InstanceType string
	DiskSize     *float64
	DiskType     string
	Environment  string
	Count        int
}

// QueryParams are fixed for a whole run.
type QueryParams struct {
	Region          string
	OperatingSystem string
	Tenancy         string
	Profile         string
}

type Cost struct {
	Hourly  decimal.Decimal // USD per instance-hour
	Monthly decimal.Decimal // Hourly * 24 * 30
	Total   decimal.Decimal // Monthly * Count
}

type PricedRow struct {
	Request   PricingRequest
	UnitPrice decimal.Decimal
	Cost      Cost
}

type GroupTotal struct {
	Group string
	Total decimal.Decimal
}
