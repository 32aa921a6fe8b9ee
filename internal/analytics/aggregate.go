// Package analytics groups cleaned records into monthly aggregates and
// shapes them for charting.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"praxiscli/pkg/contracts/domain"
)

type bucketKey struct {
	month time.Time
	value string
}

// Aggregate sums billing record amounts by (month, dimension value).
// Amounts accumulate exactly; rounding is a display concern. The result
// does not depend on the input row order.
func Aggregate(records []domain.BillingRecord, dim domain.Dimension) []domain.AggregateRow {
	totals := make(map[bucketKey]decimal.Decimal)
	for _, rec := range records {
		key := bucketKey{month: rec.Month, value: dimensionValue(rec, dim)}
		totals[key] = totals[key].Add(rec.Amount)
	}
	return rowsFromTotals(totals)
}

// AggregatePhysicians sums physician revenue by (month, canonical provider).
func AggregatePhysicians(records []domain.PhysicianRecord) []domain.AggregateRow {
	totals := make(map[bucketKey]decimal.Decimal)
	for _, rec := range records {
		key := bucketKey{month: rec.Month, value: rec.Provider}
		totals[key] = totals[key].Add(rec.Amount)
	}
	return rowsFromTotals(totals)
}

func dimensionValue(rec domain.BillingRecord, dim domain.Dimension) string {
	if dim == domain.DimensionCode {
		return rec.Code
	}
	return rec.Profession.String()
}

// rowsFromTotals normalizes the bucket map into rows ordered by month
// ascending then value, so equal inputs always yield equal output.
func rowsFromTotals(totals map[bucketKey]decimal.Decimal) []domain.AggregateRow {
	rows := make([]domain.AggregateRow, 0, len(totals))
	for key, total := range totals {
		rows = append(rows, domain.AggregateRow{
			Month: key.month,
			Value: key.value,
			Total: total,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month) {
			return rows[i].Month.Before(rows[j].Month)
		}
		return rows[i].Value < rows[j].Value
	})
	return rows
}

// WithCumulative returns the rows ordered by month ascending with a
// running total per dimension value. The running sum resets per value,
// not globally.
func WithCumulative(rows []domain.AggregateRow) []domain.AggregateRow {
	out := append([]domain.AggregateRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Value < out[j].Value
	})

	running := make(map[string]decimal.Decimal)
	for i := range out {
		running[out[i].Value] = running[out[i].Value].Add(out[i].Total)
		out[i].Cumulative = running[out[i].Value]
	}
	return out
}

// SortForDisplay orders rows for the detail table: month descending,
// then total descending.
func SortForDisplay(rows []domain.AggregateRow) []domain.AggregateRow {
	out := append([]domain.AggregateRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.After(out[j].Month)
		}
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// Series reshapes aggregate rows into one chart series per dimension
// value, x-axis months first-of-month ascending, with a zero point for
// months where the value had no revenue so lines stay continuous.
func Series(rows []domain.AggregateRow, colors map[string]string) []domain.ChartSeries {
	monthSet := make(map[time.Time]bool)
	valueSet := make(map[string]bool)
	totals := make(map[bucketKey]decimal.Decimal)
	for _, row := range rows {
		monthSet[row.Month] = true
		valueSet[row.Value] = true
		totals[bucketKey{month: row.Month, value: row.Value}] = row.Total
	}

	months := make([]time.Time, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	values := make([]string, 0, len(valueSet))
	for v := range valueSet {
		values = append(values, v)
	}
	sort.Strings(values)

	series := make([]domain.ChartSeries, 0, len(values))
	for _, v := range values {
		s := domain.ChartSeries{
			Name:   v,
			Color:  colors[v],
			Months: months,
			Totals: make([]decimal.Decimal, len(months)),
		}
		for i, m := range months {
			s.Totals[i] = totals[bucketKey{month: m, value: v}]
		}
		series = append(series, s)
	}
	return series
}

// FilterRecords keeps records whose dimension value is in the selection.
// A nil selection keeps everything; an empty selection keeps nothing,
// which the caller surfaces as a warning rather than an error.
func FilterRecords(records []domain.BillingRecord, dim domain.Dimension, selected []string) []domain.BillingRecord {
	if selected == nil {
		return records
	}
	allowed := make(map[string]bool, len(selected))
	for _, s := range selected {
		allowed[s] = true
	}
	out := make([]domain.BillingRecord, 0, len(records))
	for _, rec := range records {
		if allowed[dimensionValue(rec, dim)] {
			out = append(out, rec)
		}
	}
	return out
}

// ExcludeMonth drops records belonging to the given month bucket. It
// implements the "include current month" toggle: the chart can hide the
// in-progress month whose totals are not final yet.
func ExcludeMonth(records []domain.BillingRecord, month time.Time) []domain.BillingRecord {
	out := make([]domain.BillingRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Month.Equal(month) {
			out = append(out, rec)
		}
	}
	return out
}

// DistinctValues lists the distinct dimension values of the records in
// sorted order, feeding the UI filter options.
func DistinctValues(records []domain.BillingRecord, dim domain.Dimension) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		seen[dimensionValue(rec, dim)] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
