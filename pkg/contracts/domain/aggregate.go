package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dimension selects what aggregates are grouped by.
type Dimension string

const (
	// DimensionProfession groups by classified category
	DimensionProfession Dimension = "profession"
	// DimensionCode groups by raw tariff code
	DimensionCode Dimension = "code"
	// DimensionProvider groups by canonical provider name
	DimensionProvider Dimension = "provider"
)

// ParseDimension validates a grouping dimension from the API surface.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(s) {
	case DimensionProfession, DimensionCode, DimensionProvider:
		return Dimension(s), true
	}
	return "", false
}

// AggregateRow is one (month, dimension value) bucket with its summed
// amount. Cumulative is populated only in the cumulative view, where it
// carries the running total per dimension value in month order.
type AggregateRow struct {
	Month      time.Time       `json:"month"`
	Value      string          `json:"value"`
	Total      decimal.Decimal `json:"total"`
	Cumulative decimal.Decimal `json:"cumulative,omitempty"`
}

// ChartSeries is one plottable series: a dimension value with one point
// per month, months truncated to the first of the month.
type ChartSeries struct {
	Name   string            `json:"name"`
	Color  string            `json:"color,omitempty"`
	Months []time.Time       `json:"months"`
	Totals []decimal.Decimal `json:"totals"`
}
