// Package region maps AWS region codes to the location names used by the Price List API.
package region

import (
	"fmt"
	"sort"
)

const DefaultRegion = "me-south-1"

var locations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"af-south-1":     "Africa (Cape Town)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-southeast-3": "Asia Pacific (Jakarta)",
	"ca-central-1":   "Canada (Central)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-north-1":     "EU (Stockholm)",
	"eu-south-1":     "EU (Milan)",
	"me-south-1":     "Middle East (Bahrain)",
	"sa-east-1":      "South America (Sao Paulo)",
}

// Resolve returns the catalog location for a region code. Unknown codes do not fail:
// they yield a marked placeholder and known=false so callers can warn before any lookup.
func Resolve(code string) (location string, known bool) {
	if loc, ok := locations[code]; ok {
		return loc, true
	}
	return fmt.Sprintf("Unknown region: %s", code), false
}

type Region struct {
	Code     string
	Location string
}

// Known lists every supported region sorted by code.
func Known() []Region {
	regions := make([]Region, 0, len(locations))
	for code, loc := range locations {
		regions = append(regions, Region{Code: code, Location: loc})
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Code < regions[j].Code
	})
	return regions
}

// Codes lists the supported region codes sorted.
func Codes() []string {
	regions := Known()
	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}
	return codes
}
