package exporter

import (
	"fmt"
	"sort"
	"strconv"

	"praxiscli/internal/liquidity"
	"praxiscli/pkg/contracts/domain"
)

// WriteAggregates writes monthly aggregate rows to one report file.
func (w *CSVWriter) WriteAggregates(name string, dim domain.Dimension, rows []domain.AggregateRow) error {
	headers := []string{"month", string(dim), "total_chf", "cumulative_chf"}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Month.Format(monthLayout),
			row.Value,
			row.Total.StringFixed(2),
			row.Cumulative.StringFixed(2),
		})
	}
	return w.Write(name, headers, records)
}

// WriteLiquidity writes the horizon estimates to one report file.
func (w *CSVWriter) WriteLiquidity(name string, estimates []liquidity.HorizonEstimate) error {
	headers := []string{"horizon_days", "expected_chf", "global_probability"}

	records := make([][]string, 0, len(estimates))
	for _, est := range estimates {
		records = append(records, []string{
			strconv.Itoa(est.HorizonDays),
			est.Expected.StringFixed(2),
			fmt.Sprintf("%.4f", est.GlobalProbability),
		})
	}
	return w.Write(name, headers, records)
}

// WriteInsurerStats writes the per-insurer delay summary.
func (w *CSVWriter) WriteInsurerStats(name string, stats []liquidity.InsurerStats) error {
	headers := []string{
		"insurer", "settled", "pending", "pending_chf",
		"mean_delay_days", "median_delay_days", "min_delay_days", "max_delay_days",
	}

	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, []string{
			s.Insurer,
			strconv.Itoa(s.SettledCount),
			strconv.Itoa(s.PendingCount),
			s.PendingAmount.StringFixed(2),
			fmt.Sprintf("%.1f", s.MeanDelayDays),
			strconv.Itoa(s.MedianDelay),
			strconv.Itoa(s.MinDelayDays),
			strconv.Itoa(s.MaxDelayDays),
		})
	}
	return w.Write(name, headers, records)
}

// WriteOverdue writes the overdue invoice list, oldest first.
func (w *CSVWriter) WriteOverdue(name string, invoices []liquidity.OverdueInvoice) error {
	headers := []string{"insurer", "provider", "law_type", "amount_chf", "invoice_date", "age_days"}

	records := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		records = append(records, []string{
			inv.Invoice.Insurer,
			inv.Invoice.Provider,
			inv.Invoice.LawType,
			inv.Invoice.Amount.StringFixed(2),
			inv.Invoice.InvoiceDate.Format("2006-01-02"),
			strconv.Itoa(inv.AgeDays),
		})
	}
	return w.Write(name, headers, records)
}

// WriteNameMerges writes the deduplicator's merge decisions so they can
// be audited outside the UI.
func (w *CSVWriter) WriteNameMerges(name string, nameMap map[string]string) error {
	headers := []string{"variant", "canonical"}

	records := make([][]string, 0, len(nameMap))
	for variant, canonical := range nameMap {
		records = append(records, []string{variant, canonical})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i][1] != records[j][1] {
			return records[i][1] < records[j][1]
		}
		return records[i][0] < records[j][0]
	})
	return w.Write(name, headers, records)
}
