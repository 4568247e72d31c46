package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scadenze/internal/core"
	"scadenze/internal/log"
	"scadenze/internal/storage"
)

// LedgerService owns every mutation of transactions and accounts, keeping
// the account invariant intact across all of them:
//
//	balance == startingBalance + sum of signed completed amounts
//
// The engine itself never mutates; callers serialize writes through this
// service (single-writer model).
type LedgerService struct {
	repo   *storage.MemoryRepository
	logger *log.Logger
}

func NewLedgerService(repo *storage.MemoryRepository, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// CreateAccount registers an account whose balance starts at the starting
// balance.
func (s *LedgerService) CreateAccount(ctx context.Context, name string, startingBalance decimal.Decimal) (*core.Account, error) {
	account := &core.Account{
		Name:            name,
		StartingBalance: startingBalance,
		Balance:         startingBalance,
	}
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	return account, nil
}

// CreateTransaction validates and stores a transaction. A completed
// transaction immediately moves its account's balance.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	if tx.Status == core.StatusCompleted {
		if err := s.applyToBalance(ctx, tx.AccountID, tx.SignedAmount()); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, tx.ID.String(),
		log.FieldTitle, tx.Title,
		log.FieldAmount, tx.Amount.String())
	return nil
}

// UpdateTransaction replaces a stored transaction, reverting the old
// balance effect and applying the new one. Moving a transaction between
// accounts reverts on the old account and applies on the new.
func (s *LedgerService) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	old, err := s.repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if old.Status == core.StatusCompleted {
		if err := s.applyToBalance(ctx, old.AccountID, old.SignedAmount().Neg()); err != nil {
			return err
		}
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	if tx.Status == core.StatusCompleted {
		if err := s.applyToBalance(ctx, tx.AccountID, tx.SignedAmount()); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, tx.ID.String())
	return nil
}

// DeleteTransaction removes a transaction, reverting its balance effect
// when it was completed.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	old, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if old.Status == core.StatusCompleted {
		if err := s.applyToBalance(ctx, old.AccountID, old.SignedAmount().Neg()); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id.String())
	return nil
}

// CompleteOccurrence turns one due date of a pending scheduled template
// into a completed instance transaction: the instance is stored, the due
// date is recorded on the template, and the account balance moves. A date
// that was already completed is rejected with ErrOccurrenceCompleted, so
// "mark as paid" stays idempotent at this boundary.
func (s *LedgerService) CompleteOccurrence(ctx context.Context, templateID uuid.UUID, dueDate core.Date) (*core.Transaction, error) {
	template, err := s.repo.GetTransaction(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if !template.IsTemplate() {
		return nil, core.ErrNotTemplate
	}
	if template.OccurrenceCompleted(dueDate) {
		return nil, core.ErrOccurrenceCompleted
	}

	instance := &core.Transaction{
		Title:      template.Title,
		Amount:     template.Amount,
		Type:       template.Type,
		Status:     core.StatusCompleted,
		Date:       dueDate,
		AccountID:  template.AccountID,
		CategoryID: template.CategoryID,
		TemplateID: template.ID,
	}
	if err := s.repo.SaveTransaction(ctx, instance); err != nil {
		return nil, fmt.Errorf("save instance: %w", err)
	}

	template.MarkOccurrenceCompleted(dueDate)
	if err := s.repo.SaveTransaction(ctx, template); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	if err := s.applyToBalance(ctx, instance.AccountID, instance.SignedAmount()); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "occurrence completed",
		log.FieldOperation, log.OpComplete,
		log.FieldTemplateID, template.ID.String(),
		log.FieldTransactionID, instance.ID.String(),
		log.FieldDueDate, dueDate.String(),
		log.FieldAmount, instance.Amount.String())
	return instance, nil
}

// RecalculateBalance rebuilds an account's balance from its starting
// balance and completed history, repairing any drift.
func (s *LedgerService) RecalculateBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load account: %w", err)
	}
	completed, err := s.repo.ListCompleted(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list completed: %w", err)
	}
	account.Balance = AccountBalance(account, completed)
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return decimal.Zero, fmt.Errorf("save account: %w", err)
	}
	return account.Balance, nil
}

func (s *LedgerService) applyToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	if accountID == uuid.Nil {
		return nil
	}
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	account.Balance = account.Balance.Add(delta)
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}
