package cost

import (
	"github.com/shopspring/decimal"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

// A month is a flat 30 days of 24 hours, not a calendar month.
const (
	HoursPerDay  = 24
	DaysPerMonth = 30
)

var hoursPerMonth = decimal.NewFromInt(HoursPerDay * DaysPerMonth)

// Compute derives hourly, monthly and total cost for count instances at an hourly unit price.
func Compute(unitPrice decimal.Decimal, count int) domain.Cost {
	monthly := unitPrice.Mul(hoursPerMonth)
	return domain.Cost{
		Hourly:  unitPrice,
		Monthly: monthly,
		Total:   monthly.Mul(decimal.NewFromInt(int64(count))),
	}
}

// Price attaches a computed cost to a request.
func Price(req domain.PricingRequest, unitPrice decimal.Decimal) domain.PricedRow {
	return domain.PricedRow{
		Request:   req,
		UnitPrice: unitPrice,
		Cost:      Compute(unitPrice, req.Count),
	}
}
