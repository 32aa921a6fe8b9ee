package domain

// ColumnRef identifies one resolved column: its zero-based position in the
// sheet and the header label found there.
type ColumnRef struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// ResolvedSchema is the immutable result of column resolution for one
// uploaded table. Resolution is all-or-nothing: a ResolvedSchema only
// exists when every required column was located.
type ResolvedSchema struct {
	Code   ColumnRef `json:"code"`
	Amount ColumnRef `json:"amount"`
	Date   ColumnRef `json:"date"`
}

// BillingSchema resolves the richer invoice-level export, which carries
// settlement columns in addition to the basic code/amount/date triple.
type BillingSchema struct {
	InvoiceDate ColumnRef `json:"invoice_date"`
	LawType     ColumnRef `json:"law_type"`
	Insurer     ColumnRef `json:"insurer"`
	Provider    ColumnRef `json:"provider"`
	Status      ColumnRef `json:"status"`
	Amount      ColumnRef `json:"amount"`
	PaymentDate ColumnRef `json:"payment_date"`
}

// PhysicianSchema resolves the physician revenue export.
type PhysicianSchema struct {
	Date      ColumnRef `json:"date"`
	Physician ColumnRef `json:"physician"`
	Revenue   ColumnRef `json:"revenue"`
}
