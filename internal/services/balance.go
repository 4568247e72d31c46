package services

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

// RunningBalances folds an account's completed transactions in date order
// from the starting balance and returns the balance after each one, keyed
// by transaction ID (two same-day transactions keep distinct snapshots).
//
// The result is recomputed on every call: an edit or delete anywhere in the
// history retroactively changes every later snapshot, so nothing here may
// be cached.
func RunningBalances(account *core.Account, completed []*core.Transaction) map[uuid.UUID]decimal.Decimal {
	snapshots := make(map[uuid.UUID]decimal.Decimal, len(completed))
	if account == nil {
		return snapshots
	}

	ordered := make([]*core.Transaction, 0, len(completed))
	for _, tx := range completed {
		if tx != nil && tx.Status == core.StatusCompleted {
			ordered = append(ordered, tx)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	balance := account.StartingBalance
	for _, tx := range ordered {
		balance = balance.Add(tx.SignedAmount())
		snapshots[tx.ID] = balance
	}
	return snapshots
}

// AccountBalance recomputes an account's balance from its starting balance
// and completed history. This is the invariant every ledger mutation must
// preserve:
//
//	balance == startingBalance + sum of signed completed amounts
func AccountBalance(account *core.Account, completed []*core.Transaction) decimal.Decimal {
	if account == nil {
		return decimal.Zero
	}
	balance := account.StartingBalance
	for _, tx := range completed {
		if tx == nil || tx.Status != core.StatusCompleted {
			continue
		}
		balance = balance.Add(tx.SignedAmount())
	}
	return balance
}
