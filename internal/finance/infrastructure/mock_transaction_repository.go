package infrastructure

import (
	"context"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"sort"
	"sync"
)

// MockTransactionRepository keeps transactions in memory and applies filters
// with the same semantics as the SQL query.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	nextID       int64
	// Err, when set, is returned by every call.
	Err error
}

func (m *MockTransactionRepository) FindAll(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	filtered := []domain.Transaction{}
	for _, transaction := range m.Transactions {
		if filter.Matches(transaction) {
			filtered = append(filtered, transaction)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].TxnDate.Equal(filtered[j].TxnDate.Time) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].TxnDate.After(filtered[j].TxnDate)
	})
	return filtered, nil
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, existing := range m.Transactions {
		if existing.ID > m.nextID {
			m.nextID = existing.ID
		}
	}
	m.nextID++
	transaction.ID = m.nextID
	m.Transactions = append(m.Transactions, transaction)
	return &transaction, nil
}

func (m *MockTransactionRepository) Update(_ context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i := range m.Transactions {
		if m.Transactions[i].ID == transaction.ID {
			m.Transactions[i] = transaction
			return &transaction, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Delete(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i, transaction := range m.Transactions {
		if transaction.ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return &transaction, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}
