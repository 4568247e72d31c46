package services

import (
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"scadenze/internal/core"
)

// CalendarWindowMonths is how far ahead of the displayed month day markers
// are generated.
const CalendarWindowMonths = 12

// DayMarker summarizes the occurrences falling on a single calendar day,
// for rendering income/expense dots and totals on a calendar cell.
type DayMarker struct {
	HasIncome    bool
	HasExpense   bool
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
}

// CalendarMarkers generates day markers over a 12-month window starting at
// the first day of the displayed month. Only pending scheduled transactions
// contribute. Generation is pure, so transactions are expanded concurrently
// and merged under a lock.
func CalendarMarkers(txs []*core.Transaction, displayedMonth core.Date) map[core.Date]DayMarker {
	if displayedMonth.IsZero() {
		return map[core.Date]DayMarker{}
	}
	start := displayedMonth.StartOfMonth()
	end := start.AddMonths(CalendarWindowMonths).AddDays(-1)

	markers := make(map[core.Date]DayMarker)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(8)
	for _, tx := range txs {
		if !tx.IsTemplate() {
			continue
		}
		tx := tx
		g.Go(func() error {
			occs := ExpandOccurrences(tx, start, end)
			if len(occs) == 0 {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, occ := range occs {
				m := markers[occ.DueDate]
				if occ.Type == core.TypeIncome {
					m.HasIncome = true
					m.IncomeTotal = m.IncomeTotal.Add(occ.Amount)
				} else {
					m.HasExpense = true
					m.ExpenseTotal = m.ExpenseTotal.Add(occ.Amount)
				}
				markers[occ.DueDate] = m
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return markers
}
