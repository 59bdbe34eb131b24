package application

import (
	"context"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
)

type TransactionService struct {
	repo domain.TransactionRepository
}

func NewTransactionService(repo domain.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

// ListTransactions returns the transactions matching filter, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	transaction.Normalize()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, transaction)
}

// UpdateTransaction replaces every field of the transaction with the given id.
func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID int64, transaction domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = transactionID
	transaction.Normalize()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, transaction)
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return s.repo.Delete(ctx, transactionID)
}
