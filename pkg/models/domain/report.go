package domain

import "github.com/shopspring/decimal"

// Estimate is the complete result of one run.
type Estimate struct {
	Params      QueryParams
	Location    string
	RegionKnown bool
	Source      Table
	Rows        []PricedRow
	Errors      []RowError
	Groups      []GroupTotal
	GrandTotal  decimal.Decimal
	Currency    string
}

// RowIndex looks up results by 1-based data row position.
type RowIndex struct {
	priced   map[int]*PricedRow
	failures map[int]*RowError
}

// Index builds a RowIndex over the estimate. Renderers build it once per pass.
func (e *Estimate) Index() RowIndex {
	idx := RowIndex{
		priced:   make(map[int]*PricedRow, len(e.Rows)),
		failures: make(map[int]*RowError, len(e.Errors)),
	}
	for i := range e.Rows {
		idx.priced[e.Rows[i].Request.Row] = &e.Rows[i]
	}
	for i := range e.Errors {
		idx.failures[e.Errors[i].Row] = &e.Errors[i]
	}
	return idx
}

// FailureFor returns the error recorded for a data row, if any.
func (idx RowIndex) FailureFor(row int) (*RowError, bool) {
	e, ok := idx.failures[row]
	return e, ok
}

// PricedFor returns the priced result for a data row, if any.
func (idx RowIndex) PricedFor(row int) (*PricedRow, bool) {
	r, ok := idx.priced[row]
	return r, ok
}
