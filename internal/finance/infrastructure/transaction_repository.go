package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var txnType string
	if err := row.Scan(&transaction.ID, &transaction.TxnDate, &transaction.Account, &txnType,
		&transaction.TxnAmount, &transaction.Category, &transaction.Tags, &transaction.Notes); err != nil {
		return nil, err
	}
	transaction.TxnType = domain.TxnType(txnType)
	return &transaction, nil
}

func (r *TransactionRepository) FindAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query, args := NewTransactionQuery(filter).Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (txn_date, account, txn_type, txn_amount, category, tags, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + transactionColumns

	created, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		transaction.TxnDate, transaction.Account, string(transaction.TxnType), transaction.TxnAmount,
		transaction.Category, transaction.Tags, transaction.Notes))
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return created, nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	query := `
        UPDATE transactions
        SET txn_date = $1,
            account = $2,
            txn_type = $3,
            txn_amount = $4,
            category = $5,
            tags = $6,
            notes = $7
        WHERE id = $8
        RETURNING ` + transactionColumns

	updated, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		transaction.TxnDate, transaction.Account, string(transaction.TxnType), transaction.TxnAmount,
		transaction.Category, transaction.Tags, transaction.Notes, transaction.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("update transaction %d: %w", transaction.ID, err)
	}
	return updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `DELETE FROM transactions WHERE id = $1 RETURNING ` + transactionColumns

	deleted, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("delete transaction %d: %w", transactionID, err)
	}
	return deleted, nil
}
