package ingest

import (
	"strings"

	apperrors "praxiscli/internal/errors"
	"praxiscli/pkg/contracts/domain"
)

// Fixed ordinals of the export templates, zero-based. These mirror the
// external spreadsheet layout and are a deliberate positional contract:
// the template places these columns, not their header names, and the
// headers are not guaranteed stable across exports.
const (
	tariffCodeOrdinal   = 2
	tariffAmountOrdinal = 11

	billingInvoiceDateOrdinal = 2
	billingLawTypeOrdinal     = 4
	billingInsurerOrdinal     = 8
	billingProviderOrdinal    = 9
	billingStatusOrdinal      = 12
	billingAmountOrdinal      = 13
	billingPaymentDateOrdinal = 15

	physicianDateOrdinal    = 2
	physicianNameOrdinal    = 7
	physicianRevenueOrdinal = 14
)

// ResolveTariffSchema locates the code, amount and date columns of the
// tariff export. Code and amount are positional; the date column is the
// first header containing "date" (case-insensitive), falling back to the
// first column when no header matches.
func ResolveTariffSchema(headers []string) (domain.ResolvedSchema, error) {
	code, err := columnAt(headers, "code", tariffCodeOrdinal)
	if err != nil {
		return domain.ResolvedSchema{}, err
	}
	amount, err := columnAt(headers, "amount", tariffAmountOrdinal)
	if err != nil {
		return domain.ResolvedSchema{}, err
	}
	date, err := dateColumn(headers)
	if err != nil {
		return domain.ResolvedSchema{}, err
	}

	return domain.ResolvedSchema{Code: code, Amount: amount, Date: date}, nil
}

// ResolveBillingSchema locates the columns of the invoice-level export.
// All columns are positional.
func ResolveBillingSchema(headers []string) (domain.BillingSchema, error) {
	var schema domain.BillingSchema
	for _, c := range []struct {
		name    string
		ordinal int
		ref     *domain.ColumnRef
	}{
		{"invoice date", billingInvoiceDateOrdinal, &schema.InvoiceDate},
		{"law type", billingLawTypeOrdinal, &schema.LawType},
		{"insurer", billingInsurerOrdinal, &schema.Insurer},
		{"provider", billingProviderOrdinal, &schema.Provider},
		{"status", billingStatusOrdinal, &schema.Status},
		{"amount", billingAmountOrdinal, &schema.Amount},
		{"payment date", billingPaymentDateOrdinal, &schema.PaymentDate},
	} {
		ref, err := columnAt(headers, c.name, c.ordinal)
		if err != nil {
			return domain.BillingSchema{}, err
		}
		*c.ref = ref
	}
	return schema, nil
}

// ResolvePhysicianSchema locates the columns of the physician revenue
// export. All columns are positional.
func ResolvePhysicianSchema(headers []string) (domain.PhysicianSchema, error) {
	var schema domain.PhysicianSchema
	for _, c := range []struct {
		name    string
		ordinal int
		ref     *domain.ColumnRef
	}{
		{"date", physicianDateOrdinal, &schema.Date},
		{"physician", physicianNameOrdinal, &schema.Physician},
		{"revenue", physicianRevenueOrdinal, &schema.Revenue},
	} {
		ref, err := columnAt(headers, c.name, c.ordinal)
		if err != nil {
			return domain.PhysicianSchema{}, err
		}
		*c.ref = ref
	}
	return schema, nil
}

// columnAt resolves a fixed-position column, failing when the sheet is
// too narrow for the template.
func columnAt(headers []string, name string, ordinal int) (domain.ColumnRef, error) {
	if ordinal >= len(headers) {
		return domain.ColumnRef{}, apperrors.NewSchemaOrdinalError(name, ordinal, len(headers))
	}
	return domain.ColumnRef{Index: ordinal, Label: headers[ordinal]}, nil
}

// dateColumn finds the first header whose label contains "date",
// case-insensitive, and falls back to the first column of the table.
func dateColumn(headers []string) (domain.ColumnRef, error) {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "date") {
			return domain.ColumnRef{Index: i, Label: h}, nil
		}
	}
	if len(headers) == 0 {
		return domain.ColumnRef{}, apperrors.NewSchemaNameError("date", "table has no columns")
	}
	return domain.ColumnRef{Index: 0, Label: headers[0]}, nil
}
