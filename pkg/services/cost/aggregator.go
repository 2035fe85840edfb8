package cost

import (
	"github.com/shopspring/decimal"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

// Aggregator keeps per-group running totals in first-seen group order.
type Aggregator struct {
	order  []string
	totals map[string]decimal.Decimal
	grand  decimal.Decimal
}

func NewAggregator() *Aggregator {
	return &Aggregator{totals: make(map[string]decimal.Decimal)}
}

func (a *Aggregator) Add(row domain.PricedRow) {
	group := row.Request.Environment
	if group == "" {
		group = domain.UngroupedEnvironment
	}

	current, exists := a.totals[group]
	if !exists {
		a.order = append(a.order, group)
	}
	a.totals[group] = current.Add(row.Cost.Total)
	a.grand = a.grand.Add(row.Cost.Total)
}

func (a *Aggregator) Groups() []domain.GroupTotal {
	groups := make([]domain.GroupTotal, 0, len(a.order))
	for _, g := range a.order {
		groups = append(groups, domain.GroupTotal{Group: g, Total: a.totals[g]})
	}
	return groups
}

func (a *Aggregator) GrandTotal() decimal.Decimal {
	return a.grand
}

// Aggregate folds priced rows into ordered group totals and a grand total.
func Aggregate(rows []domain.PricedRow) ([]domain.GroupTotal, decimal.Decimal) {
	agg := NewAggregator()
	for _, row := range rows {
		agg.Add(row)
	}
	return agg.Groups(), agg.GrandTotal()
}
