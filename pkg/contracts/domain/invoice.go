package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one line of the invoice-level billing export. An invoice is
// settled when a payment date is present; Delay is only defined then.
type Invoice struct {
	Insurer     string          `json:"insurer"`
	Provider    string          `json:"provider"`
	LawType     string          `json:"law_type"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceDate time.Time       `json:"invoice_date"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

// Settled reports whether the invoice has been paid.
func (i Invoice) Settled() bool {
	return i.PaymentDate != nil
}

// DelayDays returns the settlement delay in whole days. The second return
// value is false for pending invoices, where delay is undefined.
func (i Invoice) DelayDays() (int, bool) {
	if i.PaymentDate == nil {
		return 0, false
	}
	return int(i.PaymentDate.Sub(i.InvoiceDate).Hours() / 24), true
}

// AgeDays returns how many days the invoice has been outstanding as of now.
func (i Invoice) AgeDays(now time.Time) int {
	return int(now.Sub(i.InvoiceDate).Hours() / 24)
}
