package liquidity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxiscli/pkg/contracts/domain"
)

func invoice(insurer, provider, amount string, invDay int, payDay int) domain.Invoice {
	inv := domain.Invoice{
		Insurer:     insurer,
		Provider:    provider,
		Amount:      decimal.RequireFromString(amount),
		InvoiceDate: time.Date(2024, 1, invDay, 0, 0, 0, 0, time.UTC),
	}
	if payDay > 0 {
		paid := time.Date(2024, 1, payDay, 0, 0, 0, 0, time.UTC)
		inv.PaymentDate = &paid
	}
	return inv
}

func TestBuildHistory(t *testing.T) {
	invoices := []domain.Invoice{
		invoice("CSS", "Cabinet A", "100", 1, 11),  // delay 10
		invoice("CSS", "Cabinet A", "100", 1, 31),  // delay 30
		invoice("SUVA", "Cabinet B", "100", 1, 21), // delay 20
		invoice("CSS", "Cabinet A", "100", 1, 0),   // pending, ignored
	}

	h := BuildHistory(invoices)
	assert.False(t, h.Empty())
	assert.Len(t, h.global, 3)

	p, level := h.Probability("CSS", "Cabinet A", 15)
	assert.Equal(t, LevelPair, level)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestProbabilityFallback(t *testing.T) {
	// History exists only for (CSS, Cabinet A).
	h := BuildHistory([]domain.Invoice{
		invoice("CSS", "Cabinet A", "100", 1, 11), // delay 10
		invoice("CSS", "Cabinet A", "100", 1, 41), // delay 40
	})

	t.Run("pair level when the pair has history", func(t *testing.T) {
		p, level := h.Probability("CSS", "Cabinet A", 20)
		assert.Equal(t, LevelPair, level)
		assert.InDelta(t, 0.5, p, 1e-9)
	})

	t.Run("provider level when only the provider has history", func(t *testing.T) {
		p, level := h.Probability("Helsana", "Cabinet A", 20)
		assert.Equal(t, LevelProvider, level)
		assert.InDelta(t, 0.5, p, 1e-9)
	})

	t.Run("global level when neither key has history", func(t *testing.T) {
		p, level := h.Probability("Helsana", "Cabinet Z", 45)
		assert.Equal(t, LevelGlobal, level)
		assert.InDelta(t, 1.0, p, 1e-9)
	})
}

func TestEstimate(t *testing.T) {
	t.Run("empty history yields all-zero estimates", func(t *testing.T) {
		pending := []domain.Invoice{
			invoice("CSS", "Cabinet A", "500", 1, 0),
		}
		h := BuildHistory(nil)
		require.True(t, h.Empty())

		estimates := Estimate(pending, h, []int{30, 60, 90})
		require.Len(t, estimates, 3)
		for _, e := range estimates {
			assert.True(t, e.Expected.IsZero())
			assert.Zero(t, e.GlobalProbability)
		}
	})

	t.Run("provider-level fallback drives the expectation", func(t *testing.T) {
		history := BuildHistory([]domain.Invoice{
			invoice("CSS", "Cabinet A", "100", 1, 11), // delay 10
			invoice("CSS", "Cabinet A", "100", 1, 51), // delay 50
		})

		// Pending invoice from a different insurer: no pair history,
		// provider history applies (P(delay<=30) = 0.5).
		pending := []domain.Invoice{
			invoice("Helsana", "Cabinet A", "400", 5, 0),
		}

		estimates := Estimate(pending, history, []int{30})
		require.Len(t, estimates, 1)
		assert.True(t, estimates[0].Expected.Equal(decimal.NewFromInt(200)),
			"expected 200, got %s", estimates[0].Expected)
		assert.InDelta(t, 0.5, estimates[0].GlobalProbability, 1e-9)
	})

	t.Run("settled invoices contribute nothing", func(t *testing.T) {
		history := BuildHistory([]domain.Invoice{
			invoice("CSS", "Cabinet A", "100", 1, 11),
		})
		settledOnly := []domain.Invoice{
			invoice("CSS", "Cabinet A", "900", 1, 11),
		}

		estimates := Estimate(settledOnly, history, []int{30})
		require.Len(t, estimates, 1)
		assert.True(t, estimates[0].Expected.IsZero())
	})
}

func TestInsurerDelayStats(t *testing.T) {
	invoices := []domain.Invoice{
		invoice("CSS", "Cabinet A", "100", 1, 11),  // delay 10
		invoice("CSS", "Cabinet A", "100", 1, 31),  // delay 30
		invoice("CSS", "Cabinet A", "100", 1, 21),  // delay 20
		invoice("CSS", "Cabinet A", "250", 1, 0),   // pending
		invoice("SUVA", "Cabinet B", "100", 1, 16), // delay 15
	}

	stats := InsurerDelayStats(invoices)
	require.Len(t, stats, 2)

	css := stats[0]
	assert.Equal(t, "CSS", css.Insurer)
	assert.Equal(t, 3, css.SettledCount)
	assert.Equal(t, 1, css.PendingCount)
	assert.True(t, css.PendingAmount.Equal(decimal.NewFromInt(250)))
	assert.InDelta(t, 20.0, css.MeanDelayDays, 1e-9)
	assert.Equal(t, 20, css.MedianDelay)
	assert.Equal(t, 10, css.MinDelayDays)
	assert.Equal(t, 30, css.MaxDelayDays)

	assert.Equal(t, "SUVA", stats[1].Insurer)
}

func TestOverdue(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	invoices := []domain.Invoice{
		invoice("CSS", "Cabinet A", "100", 1, 0),  // age 60
		invoice("CSS", "Cabinet A", "100", 25, 0), // age 36
		invoice("CSS", "Cabinet A", "100", 1, 11), // settled
	}
	// One young pending invoice, below the threshold.
	young := domain.Invoice{
		Insurer:     "CSS",
		Provider:    "Cabinet A",
		Amount:      decimal.NewFromInt(50),
		InvoiceDate: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	}
	invoices = append(invoices, young)

	overdue := Overdue(invoices, 30, now)
	require.Len(t, overdue, 2)
	assert.Equal(t, 60, overdue[0].AgeDays)
	assert.Equal(t, 36, overdue[1].AgeDays)
}
