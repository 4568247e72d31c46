package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Once         Frequency = "once"
	Weekly       Frequency = "weekly"
	Biweekly     Frequency = "biweekly"
	Monthly      Frequency = "monthly"
	TwiceMonthly Frequency = "twice_monthly"
	Annual       Frequency = "annual"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

type (
	Frequency         string
	TransactionType   string
	TransactionStatus string

	// Schedule is the recurrence rule attached to a transaction template.
	// FirstMonthlyDay/SecondMonthlyDay are only meaningful for TwiceMonthly
	// (zero means unset).
	Schedule struct {
		Frequency        Frequency
		AnchorDate       Date
		FirstMonthlyDay  int
		SecondMonthlyDay int
		LastProcessed    Date
	}

	// Transaction is either a concrete movement (completed) or, when it
	// carries a Schedule and is pending, a template that spawns completed
	// instance transactions for each fulfilled occurrence.
	Transaction struct {
		ID         uuid.UUID
		Title      string
		Amount     decimal.Decimal
		Type       TransactionType
		Status     TransactionStatus
		Date       Date
		Schedule   *Schedule
		AccountID  uuid.UUID // uuid.Nil = no account
		CategoryID uuid.UUID // uuid.Nil = uncategorized
		TemplateID uuid.UUID // links a spawned instance to its template

		// CompletedOccurrences records which generated due dates were
		// already turned into a completed instance transaction.
		CompletedOccurrences map[Date]struct{}
	}

	// Account holds a running balance maintained by the ledger so that
	// Balance == StartingBalance + sum of signed completed amounts.
	Account struct {
		ID              uuid.UUID
		Name            string
		StartingBalance decimal.Decimal
		Balance         decimal.Decimal
	}

	// Occurrence is an ephemeral due-date instance generated from a
	// schedule. It is produced fresh on every query and never stored.
	Occurrence struct {
		TransactionID uuid.UUID
		DueDate       Date
		Amount        decimal.Decimal
		Type          TransactionType
	}

	Category struct {
		ID   uuid.UUID
		Name string
		Kind TransactionType
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty title")
	ErrUnknownFrequency    = errors.New("unknown frequency")
	ErrMalformedSchedule   = errors.New("malformed schedule")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrOccurrenceCompleted = errors.New("occurrence already completed")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrNotTemplate         = errors.New("transaction is not a scheduled template")
)

// ParseFrequency maps a stored frequency string to its Frequency value.
// The legacy "one_time"/"oneTime" spelling is collapsed into Once; it is a
// deserialization alias only and never round-trips back out.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.TrimSpace(s)) {
	case Once, "one_time", "oneTime":
		return Once, nil
	case Weekly:
		return Weekly, nil
	case Biweekly:
		return Biweekly, nil
	case Monthly:
		return Monthly, nil
	case TwiceMonthly, "twiceMonthly":
		return TwiceMonthly, nil
	case Annual:
		return Annual, nil
	default:
		return "", ErrUnknownFrequency
	}
}

func (f Frequency) Valid() bool {
	switch f {
	case Once, Weekly, Biweekly, Monthly, TwiceMonthly, Annual:
		return true
	}
	return false
}

// Validate checks the schedule invariants: a known frequency, a usable
// anchor date, and the twice-monthly day pair present exactly when the
// frequency is TwiceMonthly.
func (s *Schedule) Validate() error {
	if s == nil {
		return ErrMalformedSchedule
	}
	if !s.Frequency.Valid() {
		return ErrUnknownFrequency
	}
	if err := s.AnchorDate.Validate(); err != nil {
		return errors.New("invalid anchor date: " + err.Error())
	}
	if s.Frequency == TwiceMonthly {
		if !validMonthDay(s.FirstMonthlyDay) || !validMonthDay(s.SecondMonthlyDay) {
			return ErrMalformedSchedule
		}
	} else if s.FirstMonthlyDay != 0 || s.SecondMonthlyDay != 0 {
		return ErrMalformedSchedule
	}
	return nil
}

// MonthlyDays returns the twice-monthly day pair in ascending order.
// ok is false when the schedule is not a well-formed twice-monthly rule.
func (s *Schedule) MonthlyDays() (first, second int, ok bool) {
	if s == nil || s.Frequency != TwiceMonthly {
		return 0, 0, false
	}
	if !validMonthDay(s.FirstMonthlyDay) || !validMonthDay(s.SecondMonthlyDay) {
		return 0, 0, false
	}
	first, second = s.FirstMonthlyDay, s.SecondMonthlyDay
	if second < first {
		first, second = second, first
	}
	return first, second, true
}

func validMonthDay(d int) bool {
	return d >= 1 && d <= 31
}

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTemplate reports whether the transaction is a pending scheduled
// template that spawns instance transactions.
func (t *Transaction) IsTemplate() bool {
	return t != nil && t.Status == StatusPending && t.Schedule != nil
}

// SignedAmount returns the amount with the ledger sign applied: income is
// positive, expense negative.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// OccurrenceCompleted reports whether the given due date was already
// fulfilled on this template.
func (t *Transaction) OccurrenceCompleted(d Date) bool {
	if t.CompletedOccurrences == nil {
		return false
	}
	_, ok := t.CompletedOccurrences[d]
	return ok
}

// MarkOccurrenceCompleted records a fulfilled due date on the template.
func (t *Transaction) MarkOccurrenceCompleted(d Date) {
	if t.CompletedOccurrences == nil {
		t.CompletedOccurrences = make(map[Date]struct{})
	}
	t.CompletedOccurrences[d] = struct{}{}
}

func (t *Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if err := t.Date.Validate(); err != nil {
		return errors.New("invalid date: " + err.Error())
	}
	if t.Schedule != nil {
		if err := t.Schedule.Validate(); err != nil {
			return err
		}
	}
	return nil
}
