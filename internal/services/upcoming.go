package services

import (
	"sort"

	"scadenze/internal/core"
)

// UpcomingWindowDays is the size of the inclusive upcoming window, today
// included.
const UpcomingWindowDays = 30

// UpcomingOccurrences returns every occurrence a dashboard should offer for
// completion: due dates of pending scheduled transactions inside
// [today, today+29], plus any uncompleted occurrence that is already past
// due (look-back bounded only by the schedule's anchor, since nothing can
// be due before it). Dates already recorded in CompletedOccurrences are
// filtered out.
//
// Ordering: past-due occurrences first, then today-or-later, each group
// ascending by due date.
func UpcomingOccurrences(txs []*core.Transaction, today core.Date) []core.Occurrence {
	if today.IsZero() {
		return nil
	}
	windowEnd := today.AddDays(UpcomingWindowDays - 1)
	yesterday := today.AddDays(-1)

	var out []core.Occurrence
	for _, tx := range txs {
		if !tx.IsTemplate() {
			continue
		}
		for _, occ := range ExpandOccurrences(tx, today, windowEnd) {
			if !tx.OccurrenceCompleted(occ.DueDate) {
				out = append(out, occ)
			}
		}
		// Past-due carry-forward: anything generated before today that was
		// never completed stays on offer.
		anchor := tx.Schedule.AnchorDate
		if anchor.Before(today) {
			for _, occ := range ExpandOccurrences(tx, anchor, yesterday) {
				if !tx.OccurrenceCompleted(occ.DueDate) {
					out = append(out, occ)
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].DueDate.Before(today), out[j].DueDate.Before(today)
		if pi != pj {
			return pi
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}
