package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"praxiscli/pkg/contracts/domain"
)

// strictDateLayout is the textual day.month.year format of the export.
// It is tried before the generic fallbacks. Note that the fallback list
// can silently misparse ambiguous numeric dates from other locales
// (day/month swapped); the strict layout is deliberately first so the
// export's own convention always wins.
const strictDateLayout = "02.01.2006"

// fallbackDateLayouts are generic formats tried after the strict layout,
// covering native date cells as excelize renders them.
var fallbackDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"01-02-06",
	"01/02/2006",
	"1/2/06",
	"1/2/2006",
	time.RFC3339,
}

// ParseAmount coerces an amount cell into a decimal. Thousands separators
// used in Swiss exports (apostrophes, spaces) and a CHF suffix are
// tolerated; anything else fails. Comma-decimal forms like "123,45" are
// rejected rather than guessed at: the export writes dot decimals, and
// stripping the comma would silently turn the value into 12345.
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "CHF")
	v = strings.ReplaceAll(v, "'", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(v)
}

// ParseDate coerces a date cell. Numeric cells are treated as Excel
// serial dates; textual cells are tried against the strict day.month.year
// layout first and then against the generic fallbacks.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return excelSerialToDate(serial), nil
	}

	if t, err := time.Parse(strictDateLayout, v); err == nil {
		return t, nil
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", v)
}

// excelSerialToDate converts an Excel serial day number to a UTC date.
// Excel's epoch is 1899-12-30 because of the leap-year-1900 bug.
func excelSerialToDate(serial float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	days := int(serial)
	frac := serial - float64(days)
	return epoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// CleanTariffRows produces the valid billing records of a tariff table.
// A row survives only when its amount parses to a strictly positive
// decimal and its date parses to a valid calendar date; the two checks
// are independent, so their order cannot change the result set. Row
// order is preserved. Profession is left unassigned for the classifier.
func CleanTariffRows(table *Table, schema domain.ResolvedSchema) ([]domain.BillingRecord, domain.RowStats) {
	records := make([]domain.BillingRecord, 0, len(table.Rows))
	stats := domain.RowStats{Total: len(table.Rows)}

	for _, row := range table.Rows {
		amount, err := ParseAmount(cell(row, schema.Amount.Index))
		if err != nil {
			stats.DroppedAmount++
			continue
		}
		if !amount.IsPositive() {
			stats.DroppedNonPos++
			continue
		}
		date, err := ParseDate(cell(row, schema.Date.Index))
		if err != nil {
			stats.DroppedDate++
			continue
		}

		code := strings.TrimSpace(cell(row, schema.Code.Index))
		records = append(records, domain.NewBillingRecord(code, amount, date))
	}

	stats.Kept = len(records)
	return records, stats
}

// CleanBillingRows produces the valid invoices of the invoice-level
// table. The invoice date and a positive amount are mandatory; the
// payment date is optional and an unparsable payment cell leaves the
// invoice pending rather than dropping the row.
func CleanBillingRows(table *Table, schema domain.BillingSchema) ([]domain.Invoice, domain.RowStats) {
	invoices := make([]domain.Invoice, 0, len(table.Rows))
	stats := domain.RowStats{Total: len(table.Rows)}

	for _, row := range table.Rows {
		amount, err := ParseAmount(cell(row, schema.Amount.Index))
		if err != nil {
			stats.DroppedAmount++
			continue
		}
		if !amount.IsPositive() {
			stats.DroppedNonPos++
			continue
		}
		invoiceDate, err := ParseDate(cell(row, schema.InvoiceDate.Index))
		if err != nil {
			stats.DroppedDate++
			continue
		}

		inv := domain.Invoice{
			Insurer:     strings.TrimSpace(cell(row, schema.Insurer.Index)),
			Provider:    strings.TrimSpace(cell(row, schema.Provider.Index)),
			LawType:     strings.TrimSpace(cell(row, schema.LawType.Index)),
			Status:      strings.TrimSpace(cell(row, schema.Status.Index)),
			Amount:      amount,
			InvoiceDate: invoiceDate,
		}
		if paid, err := ParseDate(cell(row, schema.PaymentDate.Index)); err == nil {
			inv.PaymentDate = &paid
		}

		invoices = append(invoices, inv)
	}

	stats.Kept = len(invoices)
	return invoices, stats
}

// CleanPhysicianRows produces the valid revenue lines of the physician
// table. Provider names are kept raw here; deduplication rewrites them
// afterwards.
func CleanPhysicianRows(table *Table, schema domain.PhysicianSchema) ([]domain.PhysicianRecord, domain.RowStats) {
	records := make([]domain.PhysicianRecord, 0, len(table.Rows))
	stats := domain.RowStats{Total: len(table.Rows)}

	for _, row := range table.Rows {
		amount, err := ParseAmount(cell(row, schema.Revenue.Index))
		if err != nil {
			stats.DroppedAmount++
			continue
		}
		if !amount.IsPositive() {
			stats.DroppedNonPos++
			continue
		}
		date, err := ParseDate(cell(row, schema.Date.Index))
		if err != nil {
			stats.DroppedDate++
			continue
		}

		raw := strings.TrimSpace(cell(row, schema.Physician.Index))
		records = append(records, domain.PhysicianRecord{
			RawName: raw,
			Amount:  amount,
			Date:    date,
			Month:   domain.MonthOf(date),
		})
	}

	stats.Kept = len(records)
	return records, stats
}
