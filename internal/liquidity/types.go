package liquidity

import (
	"time"

	"github.com/shopspring/decimal"

	"praxiscli/pkg/contracts/domain"
)

// ConditioningLevel records which history slice backed a probability.
type ConditioningLevel string

const (
	// LevelPair means the (insurer, provider) pair had history
	LevelPair ConditioningLevel = "pair"
	// LevelProvider means only the provider had history
	LevelProvider ConditioningLevel = "provider"
	// LevelGlobal means neither key had history
	LevelGlobal ConditioningLevel = "global"
	// LevelNone means there is no settlement history at all
	LevelNone ConditioningLevel = "none"
)

// HorizonEstimate is the expected collectable amount within one horizon.
// GlobalProbability is reported alongside as a confidence indicator for
// the UI.
type HorizonEstimate struct {
	HorizonDays       int             `json:"horizon_days"`
	Expected          decimal.Decimal `json:"expected"`
	GlobalProbability float64         `json:"global_probability"`
}

// InsurerStats summarizes the settlement behaviour of one insurer.
type InsurerStats struct {
	Insurer       string          `json:"insurer"`
	SettledCount  int             `json:"settled_count"`
	PendingCount  int             `json:"pending_count"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	MeanDelayDays float64         `json:"mean_delay_days"`
	MedianDelay   int             `json:"median_delay_days"`
	MinDelayDays  int             `json:"min_delay_days"`
	MaxDelayDays  int             `json:"max_delay_days"`
}

// OverdueInvoice is one pending invoice past the overdue threshold.
type OverdueInvoice struct {
	Invoice domain.Invoice `json:"invoice"`
	AgeDays int            `json:"age_days"`
}

// pairKey conditions history on insurer and provider together.
type pairKey struct {
	insurer  string
	provider string
}

// History is the settlement-delay distribution of one billing dataset,
// indexed by conditioning key. Built once per upload; read-only after.
type History struct {
	byPair     map[pairKey][]int
	byProvider map[string][]int
	global     []int
}

// Clock supplies the current time so overdue ages are testable.
type Clock func() time.Time
