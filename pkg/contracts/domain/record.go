package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingRecord is one cleaned line item from a billing export.
// Records are created once during cleaning and classification and are
// immutable afterwards; they live only for the current session.
type BillingRecord struct {
	Code       string          `json:"code"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Profession Category        `json:"profession"`
	Month      time.Time       `json:"month"`
}

// NewBillingRecord builds a record and derives its month bucket.
// Amount must already be validated as strictly positive by the cleaner.
func NewBillingRecord(code string, amount decimal.Decimal, date time.Time) BillingRecord {
	return BillingRecord{
		Code:   code,
		Amount: amount,
		Date:   date,
		Month:  MonthOf(date),
	}
}

// MonthOf truncates a date to the first day of its month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PhysicianRecord is one cleaned revenue line from the physician export,
// carrying the canonical provider name after deduplication.
type PhysicianRecord struct {
	Provider string          `json:"provider"`
	RawName  string          `json:"raw_name"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Month    time.Time       `json:"month"`
}
