package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

func weeklyTemplate(anchor core.Date) *core.Transaction {
	return &core.Transaction{
		ID:     uuid.New(),
		Title:  "Gym",
		Amount: decimal.NewFromInt(25),
		Type:   core.TypeExpense,
		Status: core.StatusPending,
		Date:   anchor,
		Schedule: &core.Schedule{
			Frequency:  core.Weekly,
			AnchorDate: anchor,
		},
	}
}

func TestUpcomingOccurrencesWindow(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	tx := weeklyTemplate(today)

	got := UpcomingOccurrences([]*core.Transaction{tx}, today)

	// weekly from June 1 inside [June 1, June 30]: 1, 8, 15, 22, 29
	want := dates([3]int{2024, 6, 1}, [3]int{2024, 6, 8}, [3]int{2024, 6, 15},
		[3]int{2024, 6, 22}, [3]int{2024, 6, 29})
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].DueDate.Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, got[i].DueDate, want[i])
		}
		if got[i].TransactionID != tx.ID {
			t.Errorf("occurrence %d references wrong transaction", i)
		}
	}
}

func TestUpcomingFiltersCompletedDates(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	tx := weeklyTemplate(today)
	tx.MarkOccurrenceCompleted(core.NewDate(2024, 6, 8))

	got := UpcomingOccurrences([]*core.Transaction{tx}, today)

	for _, occ := range got {
		if occ.DueDate.Equal(core.NewDate(2024, 6, 8)) {
			t.Fatalf("completed date 2024-06-08 must not be offered again")
		}
	}
	// future dates past the completed one still appear
	found := false
	for _, occ := range got {
		if occ.DueDate.Equal(core.NewDate(2024, 6, 15)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("2024-06-15 should still be offered")
	}
}

func TestUpcomingPastDueCarryForward(t *testing.T) {
	today := core.NewDate(2024, 6, 10)
	tx := weeklyTemplate(core.NewDate(2024, 5, 27)) // due May 27, Jun 3 already past
	tx.MarkOccurrenceCompleted(core.NewDate(2024, 5, 27))

	got := UpcomingOccurrences([]*core.Transaction{tx}, today)
	if len(got) == 0 {
		t.Fatalf("expected occurrences")
	}
	// June 3 is past due and uncompleted: it must come first, before the
	// in-window dates starting June 10.
	if !got[0].DueDate.Equal(core.NewDate(2024, 6, 3)) {
		t.Fatalf("first occurrence = %s, want past-due 2024-06-03", got[0].DueDate)
	}
	for _, occ := range got {
		if occ.DueDate.Equal(core.NewDate(2024, 5, 27)) {
			t.Fatalf("completed past-due date must not carry forward")
		}
	}
}

func TestUpcomingPastDueOrdering(t *testing.T) {
	today := core.NewDate(2024, 6, 10)

	// due yesterday, uncompleted
	overdue := &core.Transaction{
		ID: uuid.New(), Title: "Electricity", Amount: decimal.NewFromInt(80),
		Type: core.TypeExpense, Status: core.StatusPending,
		Date:     core.NewDate(2024, 6, 9),
		Schedule: &core.Schedule{Frequency: core.Once, AnchorDate: core.NewDate(2024, 6, 9)},
	}
	// due today
	dueToday := &core.Transaction{
		ID: uuid.New(), Title: "Paycheck", Amount: decimal.NewFromInt(2000),
		Type: core.TypeIncome, Status: core.StatusPending,
		Date:     core.NewDate(2024, 6, 10),
		Schedule: &core.Schedule{Frequency: core.Once, AnchorDate: core.NewDate(2024, 6, 10)},
	}

	got := UpcomingOccurrences([]*core.Transaction{dueToday, overdue}, today)
	if len(got) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(got))
	}
	if got[0].TransactionID != overdue.ID {
		t.Fatalf("past-due occurrence must sort before today's")
	}
}

func TestUpcomingIgnoresNonTemplates(t *testing.T) {
	today := core.NewDate(2024, 6, 1)

	completed := weeklyTemplate(today)
	completed.Status = core.StatusCompleted
	unscheduled := &core.Transaction{
		ID: uuid.New(), Title: "Coffee", Amount: decimal.NewFromInt(3),
		Type: core.TypeExpense, Status: core.StatusPending,
		Date: today,
	}

	if got := UpcomingOccurrences([]*core.Transaction{completed, unscheduled}, today); len(got) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(got))
	}
}

func TestUpcomingMalformedScheduleYieldsNothing(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	tx := &core.Transaction{
		ID: uuid.New(), Title: "Broken", Amount: decimal.NewFromInt(10),
		Type: core.TypeExpense, Status: core.StatusPending,
		Date: today,
		Schedule: &core.Schedule{
			Frequency: core.TwiceMonthly, AnchorDate: today, FirstMonthlyDay: 1,
		},
	}
	if got := UpcomingOccurrences([]*core.Transaction{tx}, today); len(got) != 0 {
		t.Fatalf("malformed schedule must yield no occurrences, got %d", len(got))
	}
}
