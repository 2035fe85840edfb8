package export

import (
	"github.com/shopspring/decimal"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/estimate"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

// Computed column names appended to the source columns.
const (
	ColumnHourly       = "hourly_price"
	ColumnMonthly      = "monthly_price"
	ColumnTotalMonthly = "total_monthly"

	EnvironmentTotalsHeader = "=== Environment Totals ==="
	GrandTotalLabel         = "GRAND TOTAL"
)

// BuildSheet lays out an estimate as an output grid: the source columns in their
// input order followed by the computed price columns, then the totals section.
func BuildSheet(est *domain.Estimate) table.Sheet {
	src := est.Source
	withCount := src.HasColumn(domain.ColumnCount)

	header := append([]string{}, src.Columns...)
	header = append(header, ColumnHourly, ColumnMonthly)
	if withCount {
		header = append(header, ColumnTotalMonthly)
	}
	width := len(header)
	totalCol := width - 1

	idx := est.Index()
	sheet := table.Sheet{header}
	for i, raw := range src.Rows {
		record := make([]string, 0, width)
		for _, col := range src.Columns {
			record = append(record, raw.Get(col).Text())
		}
		record = append(record, computedCells(idx, i+1, withCount)...)
		sheet = append(sheet, record)
	}

	blank := func() []string { return make([]string, width) }
	labelled := func(label string, total decimal.Decimal) []string {
		record := blank()
		record[0] = label
		record[totalCol] = total.StringFixed(2)
		return record
	}

	sheet = append(sheet, blank(), blank())
	if src.HasColumn(domain.ColumnEnvironment) {
		title := blank()
		title[0] = EnvironmentTotalsHeader
		sheet = append(sheet, title)
		for _, g := range est.Groups {
			sheet = append(sheet, labelled(g.Group, g.Total))
		}
	}
	return append(sheet, blank(), labelled(GrandTotalLabel, est.GrandTotal))
}

func computedCells(idx domain.RowIndex, row int, withCount bool) []string {
	n := 2
	if withCount {
		n = 3
	}
	cells := make([]string, n)

	if rowErr, ok := idx.FailureFor(row); ok {
		label := estimate.FailureLabel(rowErr)
		for i := range cells {
			cells[i] = label
		}
		return cells
	}
	if priced, ok := idx.PricedFor(row); ok {
		cells[0] = priced.Cost.Hourly.StringFixed(4)
		cells[1] = priced.Cost.Monthly.StringFixed(2)
		if withCount {
			cells[2] = priced.Cost.Total.StringFixed(2)
		}
	}
	return cells
}
