// Package services provides the occurrence engine and its aggregations.
//
// This file implements the Strategy Pattern for occurrence generation. Each
// frequency (once, weekly, biweekly, monthly, twice-monthly, annual) has its
// own rule that expands a schedule into concrete due dates and resolves the
// next due date after a reference day.
package services

import (
	"fmt"
	"sort"

	"scadenze/internal/core"
)

// OccurrenceRule is the strategy interface for a single frequency.
type OccurrenceRule interface {
	// Generate returns every due date in [start, end], both inclusive.
	Generate(s *core.Schedule, start, end core.Date) []core.Date
	// Next returns the earliest due date strictly after the reference day,
	// or false when the schedule has no further occurrence.
	Next(s *core.Schedule, after core.Date) (core.Date, bool)
}

// OnceRule implements OccurrenceRule for one-time schedules.
type OnceRule struct{}

func (OnceRule) Generate(s *core.Schedule, start, end core.Date) []core.Date {
	a := s.AnchorDate
	if a.Before(start) || a.After(end) {
		return nil
	}
	return []core.Date{a}
}

func (OnceRule) Next(s *core.Schedule, after core.Date) (core.Date, bool) {
	if s.AnchorDate.After(after) {
		return s.AnchorDate, true
	}
	return core.Date{}, false
}

// StrideRule implements OccurrenceRule for fixed day strides (weekly: 7,
// biweekly: 14). Anchors before the window are advanced forward by whole
// periods, never emitted.
type StrideRule struct {
	Days int
}

func (r StrideRule) Generate(s *core.Schedule, start, end core.Date) []core.Date {
	cur := s.AnchorDate
	if cur.Before(start) {
		behind := daysBetween(cur, start)
		periods := behind / r.Days
		cur = cur.AddDays(periods * r.Days)
		if cur.Before(start) {
			cur = cur.AddDays(r.Days)
		}
	}
	var out []core.Date
	for !cur.After(end) {
		out = append(out, cur)
		cur = cur.AddDays(r.Days)
	}
	return out
}

func (r StrideRule) Next(s *core.Schedule, after core.Date) (core.Date, bool) {
	cur := s.AnchorDate
	if cur.After(after) {
		return cur, true
	}
	behind := daysBetween(cur, after)
	periods := behind/r.Days + 1
	return cur.AddDays(periods * r.Days), true
}

// MonthlyRule implements OccurrenceRule for monthly schedules. The anchor's
// day of month is kept, clamped to the last day of shorter months.
type MonthlyRule struct{}

func (MonthlyRule) Generate(s *core.Schedule, start, end core.Date) []core.Date {
	anchor := s.AnchorDate
	k := monthsBetween(anchor, start) - 1
	if k < 0 {
		k = 0
	}
	var out []core.Date
	for {
		cur := anchor.AddMonths(k)
		if cur.After(end) {
			return out
		}
		if !cur.Before(start) && !cur.Before(anchor) {
			out = append(out, cur)
		}
		k++
	}
}

func (MonthlyRule) Next(s *core.Schedule, after core.Date) (core.Date, bool) {
	anchor := s.AnchorDate
	k := monthsBetween(anchor, after) - 1
	if k < 0 {
		k = 0
	}
	for {
		cur := anchor.AddMonths(k)
		if cur.After(after) {
			return cur, true
		}
		k++
	}
}

// TwiceMonthlyRule implements OccurrenceRule for schedules due on two fixed
// days of every month. Days that do not exist in a month clamp to its last
// day. The scan always covers at least three months past the window start so
// a 30-day window is never under-covered.
type TwiceMonthlyRule struct{}

func (TwiceMonthlyRule) Generate(s *core.Schedule, start, end core.Date) []core.Date {
	first, second, ok := s.MonthlyDays()
	if !ok {
		return nil
	}
	var out []core.Date
	minScan := start.StartOfMonth().AddMonths(3)
	for m := start.StartOfMonth(); !m.After(end) || !m.After(minScan); m = m.AddMonths(1) {
		for _, day := range []int{first, second} {
			cur := core.ClampToMonth(m.Year(), m.Month(), day)
			if !cur.Before(start) && !cur.After(end) {
				out = append(out, cur)
			}
		}
	}
	return out
}

func (TwiceMonthlyRule) Next(s *core.Schedule, after core.Date) (core.Date, bool) {
	first, second, ok := s.MonthlyDays()
	if !ok {
		return core.Date{}, false
	}
	firstDue := core.ClampToMonth(after.Year(), after.Month(), first)
	if after.Before(firstDue) {
		return firstDue, true
	}
	secondDue := core.ClampToMonth(after.Year(), after.Month(), second)
	if after.Before(secondDue) {
		return secondDue, true
	}
	next := after.StartOfMonth().AddMonths(1)
	return core.ClampToMonth(next.Year(), next.Month(), first), true
}

// AnnualRule implements OccurrenceRule for yearly schedules, advancing from
// the anchor by whole years. A Feb 29 anchor clamps to Feb 28 off leap years.
type AnnualRule struct{}

func (AnnualRule) Generate(s *core.Schedule, start, end core.Date) []core.Date {
	anchor := s.AnchorDate
	k := start.Year() - anchor.Year() - 1
	if k < 0 {
		k = 0
	}
	var out []core.Date
	for {
		cur := anchor.AddYears(k)
		if cur.After(end) {
			return out
		}
		if !cur.Before(start) && !cur.Before(anchor) {
			out = append(out, cur)
		}
		k++
	}
}

func (AnnualRule) Next(s *core.Schedule, after core.Date) (core.Date, bool) {
	anchor := s.AnchorDate
	k := after.Year() - anchor.Year() - 1
	if k < 0 {
		k = 0
	}
	for {
		cur := anchor.AddYears(k)
		if cur.After(after) {
			return cur, true
		}
		k++
	}
}

// occurrenceRules maps frequencies to their rules. The registry enables O(1)
// lookup and extension with custom frequencies.
var occurrenceRules = map[core.Frequency]OccurrenceRule{
	core.Once:         OnceRule{},
	core.Weekly:       StrideRule{Days: 7},
	core.Biweekly:     StrideRule{Days: 14},
	core.Monthly:      MonthlyRule{},
	core.TwiceMonthly: TwiceMonthlyRule{},
	core.Annual:       AnnualRule{},
}

// RuleFor returns the occurrence rule for a frequency.
// Returns an error if the frequency is not registered.
func RuleFor(frequency core.Frequency) (OccurrenceRule, error) {
	rule, ok := occurrenceRules[frequency]
	if !ok {
		return nil, fmt.Errorf("no occurrence rule for frequency: %s", frequency)
	}
	return rule, nil
}

// RegisterOccurrenceRule registers a custom rule for a frequency.
func RegisterOccurrenceRule(frequency core.Frequency, rule OccurrenceRule) {
	occurrenceRules[frequency] = rule
}

// GenerateOccurrences expands a schedule into every due date inside
// [start, end], ascending and deduplicated. Malformed schedules, unknown
// frequencies and inverted windows all yield an empty result; the generator
// is a pure function of its inputs and never fails.
func GenerateOccurrences(s *core.Schedule, start, end core.Date) []core.Date {
	if s == nil || s.Validate() != nil {
		return nil
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}
	rule, err := RuleFor(s.Frequency)
	if err != nil {
		return nil
	}
	return sortedUniqueDates(rule.Generate(s, start, end))
}

// NextOccurrence resolves the earliest due date strictly after the given
// day. Malformed schedules and exhausted one-time schedules return false.
func NextOccurrence(s *core.Schedule, after core.Date) (core.Date, bool) {
	if s == nil || s.Validate() != nil || after.IsZero() {
		return core.Date{}, false
	}
	rule, err := RuleFor(s.Frequency)
	if err != nil {
		return core.Date{}, false
	}
	return rule.Next(s, after)
}

// ExpandOccurrences generates the transaction's due dates in the window and
// wraps each into an Occurrence carrying the amount and type. Transactions
// without a schedule expand to nothing.
func ExpandOccurrences(tx *core.Transaction, start, end core.Date) []core.Occurrence {
	if tx == nil || tx.Schedule == nil {
		return nil
	}
	dates := GenerateOccurrences(tx.Schedule, start, end)
	if len(dates) == 0 {
		return nil
	}
	out := make([]core.Occurrence, 0, len(dates))
	for _, d := range dates {
		out = append(out, core.Occurrence{
			TransactionID: tx.ID,
			DueDate:       d,
			Amount:        tx.Amount,
			Type:          tx.Type,
		})
	}
	return out
}

func sortedUniqueDates(dates []core.Date) []core.Date {
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := dates[:1]
	for _, d := range dates[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// daysBetween returns whole days from a to b. Dates are UTC midnights, so
// the division is exact.
func daysBetween(a, b core.Date) int {
	return int(b.Sub(a.Time).Hours() / 24)
}

// monthsBetween returns calendar months from a's month to b's month,
// ignoring days.
func monthsBetween(a, b core.Date) int {
	return (b.Year()-a.Year())*12 + b.Month() - a.Month()
}
