package api

// EstimateRequest prices a table sent as JSON. Columns fixes the column order of
// the echoed table; when empty the union of row keys is used in sorted order.
type EstimateRequest struct {
	Region          string                   `json:"region"`
	OperatingSystem string                   `json:"operating_system"`
	Tenancy         string                   `json:"tenancy"`
	Columns         []string                 `json:"columns,omitempty"`
	Rows            []map[string]interface{} `json:"rows"`
}

type Estimate struct {
	Region          string       `json:"region"`
	Location        string       `json:"location"`
	RegionKnown     bool         `json:"region_known"`
	OperatingSystem string       `json:"operating_system"`
	Tenancy         string       `json:"tenancy"`
	Currency        string       `json:"currency"`
	Rows            []PricedRow  `json:"rows"`
	Errors          []RowError   `json:"errors"`
	Groups          []GroupTotal `json:"groups"`
	GrandTotal      string       `json:"grand_total"`
}

type PricedRow struct {
	Row          int      `json:"row"`
	InstanceType string   `json:"instance_type"`
	Environment  string   `json:"environment,omitempty"`
	DiskType     string   `json:"disk_type"`
	DiskSize     *float64 `json:"disk_size,omitempty"`
	Count        int      `json:"count"`
	HourlyPrice  string   `json:"hourly_price"`
	MonthlyPrice string   `json:"monthly_price"`
	TotalMonthly string   `json:"total_monthly"`
}

type RowError struct {
	Row          int    `json:"row"`
	InstanceType string `json:"instance_type,omitempty"`
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	Message      string `json:"message"`
}

type GroupTotal struct {
	Environment  string `json:"environment"`
	TotalMonthly string `json:"total_monthly"`
}

type Region struct {
	Code     string `json:"code"`
	Location string `json:"location"`
}
