package domain

import (
	"context"
	"encoding/json"
	"github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"math"
	"strings"
)

type TxnType string

const (
	TxnTypeCredit TxnType = "Credit"
	TxnTypeDebit  TxnType = "Debit"
	TxnTypeOthers TxnType = "Others"
)

var TxnTypes = []TxnType{TxnTypeCredit, TxnTypeDebit, TxnTypeOthers}

func IsValidTxnType(t TxnType) bool {
	for _, valid := range TxnTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// amountIntegerDigits is the number of integer digits a NUMERIC(14,2) amount
// column holds.
const amountIntegerDigits = 12

var maxAmount = decimal.New(1, amountIntegerDigits)

// NormalizeAmount rounds amount to two decimal places and reports whether the
// result fits the amount columns. The magnitude is checked before rounding so
// an extreme exponent is rejected without being expanded.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, bool) {
	if amount.IsZero() {
		return decimal.Zero, true
	}
	// upper bound on the integer digits, at most one above the exact count
	coefficientDigits := int64(float64(amount.Coefficient().BitLen())*math.Log10(2)) + 1
	magnitude := coefficientDigits + int64(amount.Exponent())
	switch {
	case magnitude > amountIntegerDigits+1:
		return amount, false
	case magnitude < -3:
		return decimal.Zero, true
	}
	rounded := amount.Round(2)
	return rounded, rounded.Abs().LessThan(maxAmount)
}

// NewAmountRangeError reports an amount that does not fit the amount columns.
func NewAmountRangeError(field string) error {
	return errors.NewFieldValidationError(field, "must be less than "+maxAmount.String()+" in absolute value")
}

type TransactionRepository interface {
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Create(ctx context.Context, transaction Transaction) (*Transaction, error)
	Update(ctx context.Context, transaction Transaction) (*Transaction, error)
	Delete(ctx context.Context, transactionID int64) (*Transaction, error)
}

type Transaction struct {
	ID        int64           `json:"id"`
	TxnDate   Date            `json:"txn_date"`
	Account   string          `json:"account"`
	TxnType   TxnType         `json:"txn_type"`
	TxnAmount decimal.Decimal `json:"txn_amount"`
	Category  string          `json:"category"`
	Tags      string          `json:"tags"`
	Notes     string          `json:"notes"`
}

// MarshalJSON writes txn_amount with exactly two decimal places.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type transactionJSON Transaction
	return json.Marshal(struct {
		transactionJSON
		TxnAmount string `json:"txn_amount"`
	}{transactionJSON(t), t.TxnAmount.StringFixed(2)})
}

// RoundToTwoDecimalPlaces leaves an out-of-range amount untouched for Validate
// to report.
func (t *Transaction) RoundToTwoDecimalPlaces() {
	if rounded, ok := NormalizeAmount(t.TxnAmount); ok {
		t.TxnAmount = rounded
	}
}

// Normalize trims free-text fields and rounds the amount to the precision of
// the txn_amount column.
func (t *Transaction) Normalize() {
	t.Account = strings.TrimSpace(t.Account)
	t.TxnType = TxnType(strings.TrimSpace(string(t.TxnType)))
	t.Category = strings.TrimSpace(t.Category)
	t.Tags = strings.TrimSpace(t.Tags)
	t.Notes = strings.TrimSpace(t.Notes)
	t.RoundToTwoDecimalPlaces()
}

// Validate checks the fields every stored transaction must carry. Tags and
// notes may be empty.
func (t *Transaction) Validate() error {
	validationErrors := &errors.ValidationErrors{}
	if t.TxnDate.IsZero() {
		validationErrors.Add(errors.NewFieldValidationError("txn_date", "is required"))
	}
	if t.Account == "" {
		validationErrors.Add(errors.NewFieldValidationError("account", "is required"))
	}
	if !IsValidTxnType(t.TxnType) {
		validationErrors.Add(errors.NewFieldValidationError("txn_type", "must be 'Credit', 'Debit' or 'Others'"))
	}
	if _, ok := NormalizeAmount(t.TxnAmount); !ok {
		validationErrors.Add(NewAmountRangeError("txn_amount"))
	}
	if t.Category == "" {
		validationErrors.Add(errors.NewFieldValidationError("category", "is required"))
	}
	return validationErrors.ErrOrNil()
}
