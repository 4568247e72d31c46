// Package storage holds the in-process object graph the occurrence engine
// reads: accounts and transactions keyed by ID. It is not a persistence
// layer; durability and sync belong to the host application.
package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"scadenze/internal/core"
)

// MemoryRepository is an in-memory store safe for concurrent readers and a
// single writer per mutation. Values are copied on the way in and out so
// callers can never alias the stored graph.
type MemoryRepository struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*core.Account
	transactions map[uuid.UUID]*core.Transaction
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts:     make(map[uuid.UUID]*core.Account),
		transactions: make(map[uuid.UUID]*core.Transaction),
	}
}

// SaveAccount inserts or replaces an account. A zero ID is assigned one.
func (r *MemoryRepository) SaveAccount(_ context.Context, a *core.Account) error {
	if a == nil {
		return core.ErrAccountNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

// GetAccount returns a copy of the account.
func (r *MemoryRepository) GetAccount(_ context.Context, id uuid.UUID) (*core.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// ListAccounts returns copies of all accounts.
func (r *MemoryRepository) ListAccounts(_ context.Context) ([]*core.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// SaveTransaction inserts or replaces a transaction. A zero ID is assigned
// one.
func (r *MemoryRepository) SaveTransaction(_ context.Context, tx *core.Transaction) error {
	if tx == nil {
		return core.ErrTransactionNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	r.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

// GetTransaction returns a copy of the transaction.
func (r *MemoryRepository) GetTransaction(_ context.Context, id uuid.UUID) (*core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, core.ErrTransactionNotFound
	}
	return copyTransaction(tx), nil
}

// DeleteTransaction removes a transaction.
func (r *MemoryRepository) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

// TransactionFilter narrows ListTransactions results. Nil/zero fields match
// everything.
type TransactionFilter struct {
	Status        core.TransactionStatus
	AccountID     uuid.UUID
	TemplatesOnly bool
}

// ListTransactions returns copies of the transactions matching the filter.
func (r *MemoryRepository) ListTransactions(_ context.Context, f TransactionFilter) ([]*core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*core.Transaction
	for _, tx := range r.transactions {
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		if f.AccountID != uuid.Nil && tx.AccountID != f.AccountID {
			continue
		}
		if f.TemplatesOnly && !tx.IsTemplate() {
			continue
		}
		out = append(out, copyTransaction(tx))
	}
	return out, nil
}

// ListCompleted returns copies of the completed transactions on an account.
func (r *MemoryRepository) ListCompleted(ctx context.Context, accountID uuid.UUID) ([]*core.Transaction, error) {
	return r.ListTransactions(ctx, TransactionFilter{Status: core.StatusCompleted, AccountID: accountID})
}

// ListTemplates returns copies of all pending scheduled transactions.
func (r *MemoryRepository) ListTemplates(ctx context.Context) ([]*core.Transaction, error) {
	return r.ListTransactions(ctx, TransactionFilter{TemplatesOnly: true})
}

func copyTransaction(tx *core.Transaction) *core.Transaction {
	cp := *tx
	if tx.Schedule != nil {
		sched := *tx.Schedule
		cp.Schedule = &sched
	}
	if tx.CompletedOccurrences != nil {
		cp.CompletedOccurrences = make(map[core.Date]struct{}, len(tx.CompletedOccurrences))
		for d := range tx.CompletedOccurrences {
			cp.CompletedOccurrences[d] = struct{}{}
		}
	}
	return &cp
}
