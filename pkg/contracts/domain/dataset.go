package domain

import "time"

// Module identifies which analysis module a dataset belongs to.
type Module string

const (
	// ModuleTariffs is the per-service tariff analysis
	ModuleTariffs Module = "tariffs"
	// ModuleBilling is the invoice-level billing and liquidity analysis
	ModuleBilling Module = "billing"
	// ModulePhysicians is the per-physician revenue analysis
	ModulePhysicians Module = "physicians"
)

// ParseModule validates a module name from the API surface.
func ParseModule(s string) (Module, bool) {
	switch Module(s) {
	case ModuleTariffs, ModuleBilling, ModulePhysicians:
		return Module(s), true
	}
	return "", false
}

// RowStats counts how the cleaner disposed of the raw rows of one upload.
type RowStats struct {
	Total         int `json:"total"`
	Kept          int `json:"kept"`
	DroppedAmount int `json:"dropped_amount"`
	DroppedDate   int `json:"dropped_date"`
	DroppedNonPos int `json:"dropped_non_positive"`
}

// TariffDataset is the parsed result of one tariffs upload, owned by the
// session that uploaded it and replaced wholesale on the next upload.
type TariffDataset struct {
	Schema   ResolvedSchema  `json:"schema"`
	Records  []BillingRecord `json:"records"`
	Stats    RowStats        `json:"stats"`
	LoadedAt time.Time       `json:"loaded_at"`
}

// BillingDataset is the parsed result of one billing upload.
type BillingDataset struct {
	Schema   BillingSchema `json:"schema"`
	Invoices []Invoice     `json:"invoices"`
	Stats    RowStats      `json:"stats"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// PhysicianDataset is the parsed result of one physician upload, with
// provider names already rewritten to their canonical form.
type PhysicianDataset struct {
	Schema   PhysicianSchema   `json:"schema"`
	Records  []PhysicianRecord `json:"records"`
	NameMap  map[string]string `json:"name_map"`
	Stats    RowStats          `json:"stats"`
	LoadedAt time.Time         `json:"loaded_at"`
}
