package liquidity

import (
	"sort"

	"github.com/shopspring/decimal"

	"praxiscli/pkg/contracts/domain"
)

// InsurerDelayStats summarizes settlement behaviour per insurer, sorted
// by insurer name for stable display.
func InsurerDelayStats(invoices []domain.Invoice) []InsurerStats {
	type acc struct {
		delays        []int
		pendingCount  int
		pendingAmount decimal.Decimal
	}

	byInsurer := make(map[string]*acc)
	for _, inv := range invoices {
		a, ok := byInsurer[inv.Insurer]
		if !ok {
			a = &acc{}
			byInsurer[inv.Insurer] = a
		}
		if delay, settled := inv.DelayDays(); settled {
			a.delays = append(a.delays, delay)
		} else {
			a.pendingCount++
			a.pendingAmount = a.pendingAmount.Add(inv.Amount)
		}
	}

	stats := make([]InsurerStats, 0, len(byInsurer))
	for insurer, a := range byInsurer {
		s := InsurerStats{
			Insurer:       insurer,
			SettledCount:  len(a.delays),
			PendingCount:  a.pendingCount,
			PendingAmount: a.pendingAmount,
		}
		if len(a.delays) > 0 {
			sort.Ints(a.delays)
			s.MinDelayDays = a.delays[0]
			s.MaxDelayDays = a.delays[len(a.delays)-1]
			s.MedianDelay = a.delays[len(a.delays)/2]

			sum := 0
			for _, d := range a.delays {
				sum += d
			}
			s.MeanDelayDays = float64(sum) / float64(len(a.delays))
		}
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Insurer < stats[j].Insurer })
	return stats
}

// Overdue lists pending invoices older than minDays, oldest first.
func Overdue(invoices []domain.Invoice, minDays int, now Clock) []OverdueInvoice {
	overdue := make([]OverdueInvoice, 0)
	for _, inv := range invoices {
		if inv.Settled() {
			continue
		}
		age := inv.AgeDays(now())
		if age > minDays {
			overdue = append(overdue, OverdueInvoice{Invoice: inv, AgeDays: age})
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool { return overdue[i].AgeDays > overdue[j].AgeDays })
	return overdue
}
