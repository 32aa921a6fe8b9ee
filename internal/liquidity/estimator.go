package liquidity

import (
	"github.com/shopspring/decimal"

	"praxiscli/pkg/contracts/domain"
)

// BuildHistory collects the settlement delays of the settled invoices,
// indexed by (insurer, provider) pair, by provider, and globally.
// Pending invoices contribute nothing.
func BuildHistory(invoices []domain.Invoice) *History {
	h := &History{
		byPair:     make(map[pairKey][]int),
		byProvider: make(map[string][]int),
	}

	for _, inv := range invoices {
		delay, ok := inv.DelayDays()
		if !ok {
			continue
		}
		pk := pairKey{insurer: inv.Insurer, provider: inv.Provider}
		h.byPair[pk] = append(h.byPair[pk], delay)
		h.byProvider[inv.Provider] = append(h.byProvider[inv.Provider], delay)
		h.global = append(h.global, delay)
	}

	return h
}

// Empty reports whether there is no settlement history at all.
func (h *History) Empty() bool {
	return len(h.global) == 0
}

// Probability returns the empirical probability that an invoice of the
// given insurer and provider settles within horizon days, together with
// the conditioning level that backed it. The most specific key with
// history wins; with no history at all the probability is zero.
func (h *History) Probability(insurer, provider string, horizonDays int) (float64, ConditioningLevel) {
	if delays, ok := h.byPair[pairKey{insurer: insurer, provider: provider}]; ok && len(delays) > 0 {
		return fractionWithin(delays, horizonDays), LevelPair
	}
	if delays, ok := h.byProvider[provider]; ok && len(delays) > 0 {
		return fractionWithin(delays, horizonDays), LevelProvider
	}
	if len(h.global) > 0 {
		return fractionWithin(h.global, horizonDays), LevelGlobal
	}
	return 0, LevelNone
}

// GlobalProbability is the unconditioned probability of settling within
// the horizon, reported to the UI as a confidence indicator.
func (h *History) GlobalProbability(horizonDays int) float64 {
	if len(h.global) == 0 {
		return 0
	}
	return fractionWithin(h.global, horizonDays)
}

func fractionWithin(delays []int, horizonDays int) float64 {
	n := 0
	for _, d := range delays {
		if d <= horizonDays {
			n++
		}
	}
	return float64(n) / float64(len(delays))
}

// Estimate computes the expected collectable amount for every horizon:
// the sum over pending invoices of amount times the settlement
// probability under the invoice's conditioning key. Settled invoices in
// the input are ignored. An empty history yields all-zero estimates.
func Estimate(invoices []domain.Invoice, history *History, horizons []int) []HorizonEstimate {
	estimates := make([]HorizonEstimate, 0, len(horizons))

	for _, horizon := range horizons {
		expected := decimal.Zero
		for _, inv := range invoices {
			if inv.Settled() {
				continue
			}
			p, _ := history.Probability(inv.Insurer, inv.Provider, horizon)
			if p == 0 {
				continue
			}
			expected = expected.Add(inv.Amount.Mul(decimal.NewFromFloat(p)))
		}
		estimates = append(estimates, HorizonEstimate{
			HorizonDays:       horizon,
			Expected:          expected,
			GlobalProbability: history.GlobalProbability(horizon),
		})
	}

	return estimates
}
