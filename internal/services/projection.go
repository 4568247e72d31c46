package services

import (
	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

// ProjectionMode selects how occurrences per month are counted.
type ProjectionMode int

const (
	// ProjectionExact runs the generator over each month window. Default.
	ProjectionExact ProjectionMode = iota
	// ProjectionApprox uses the legacy fixed multipliers (weekly 4,
	// biweekly 2, monthly 1, twice-monthly 2, annual 0 or 1). Kept for
	// compatibility with previously displayed projection figures; it
	// undercounts months with five weekly due dates.
	ProjectionApprox
)

// ProjectionMonths is the default projection horizon.
const ProjectionMonths = 12

// MonthProjection is one month of projected cash flow with the running
// balance carried forward from the previous month.
type MonthProjection struct {
	Year    int
	Month   int // 1-12
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ProjectMonths projects cash flow for n calendar months starting with the
// month after today (the current month is excluded). Only pending scheduled
// transactions contribute. The running balance starts from the account's
// current balance and carries month to month:
//
//	balance[m] = balance[m-1] + income[m] - expense[m]
//
// A nil account projects from a zero starting balance.
func ProjectMonths(txs []*core.Transaction, account *core.Account, today core.Date, n int, mode ProjectionMode) []MonthProjection {
	if today.IsZero() || n <= 0 {
		return nil
	}
	balance := decimal.Zero
	if account != nil {
		balance = account.Balance
	}

	out := make([]MonthProjection, 0, n)
	for i := 1; i <= n; i++ {
		monthStart := today.StartOfMonth().AddMonths(i)
		income, expense := decimal.Zero, decimal.Zero

		for _, tx := range txs {
			if !tx.IsTemplate() {
				continue
			}
			count := occurrencesInMonth(tx.Schedule, monthStart, mode)
			if count == 0 {
				continue
			}
			total := tx.Amount.Mul(decimal.NewFromInt(int64(count)))
			if tx.Type == core.TypeIncome {
				income = income.Add(total)
			} else {
				expense = expense.Add(total)
			}
		}

		balance = balance.Add(income).Sub(expense)
		out = append(out, MonthProjection{
			Year:    monthStart.Year(),
			Month:   monthStart.Month(),
			Income:  income,
			Expense: expense,
			Balance: balance,
		})
	}
	return out
}

// occurrencesInMonth counts a schedule's due dates in the given month.
func occurrencesInMonth(s *core.Schedule, monthStart core.Date, mode ProjectionMode) int {
	if mode == ProjectionExact {
		monthEnd := core.NewDate(monthStart.Year(), monthStart.Month(), core.DaysInMonth(monthStart.Year(), monthStart.Month()))
		return len(GenerateOccurrences(s, monthStart, monthEnd))
	}

	switch s.Frequency {
	case core.Weekly:
		return 4
	case core.Biweekly:
		return 2
	case core.Monthly:
		return 1
	case core.TwiceMonthly:
		if _, _, ok := s.MonthlyDays(); !ok {
			return 0
		}
		return 2
	case core.Annual:
		if s.AnchorDate.Month() == monthStart.Month() {
			return 1
		}
		return 0
	case core.Once:
		if s.AnchorDate.Year() == monthStart.Year() && s.AnchorDate.Month() == monthStart.Month() {
			return 1
		}
		return 0
	default:
		return 0
	}
}
