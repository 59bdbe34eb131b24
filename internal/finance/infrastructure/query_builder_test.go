package infrastructure

import (
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewTransactionQuery_NoFilters(t *testing.T) {
	query, args := NewTransactionQuery(domain.TransactionFilter{}).Build()

	assert.Equal(t, "SELECT "+transactionColumns+" FROM transactions WHERE 1=1 ORDER BY txn_date DESC, id DESC", query)
	assert.Empty(t, args)
}

func TestNewTransactionQuery_AllFilters(t *testing.T) {
	from := domain.NewDate(2024, time.January, 1)
	to := domain.NewDate(2024, time.March, 31)
	txnType := domain.TxnTypeDebit
	amount := decimal.RequireFromString("250.00")

	filter := domain.TransactionFilter{
		FromDate:  &from,
		ToDate:    &to,
		Account:   strPtr("Cash"),
		TxnType:   &txnType,
		TxnAmount: &amount,
		Category:  strPtr("Groceries"),
		Tags:      strPtr("food"),
		Notes:     strPtr("super"),
	}
	builder := NewTransactionQuery(filter)

	assert.Equal(t, []string{
		"txn_date >= $1",
		"txn_date <= $2",
		"account = $3",
		"txn_type = $4",
		"txn_amount = $5",
		"category = $6",
		"tags ILIKE $7",
		"notes ILIKE $8",
	}, builder.Conditions())

	query, args := builder.Build()
	assert.True(t, strings.HasSuffix(query, " ORDER BY txn_date DESC, id DESC"))
	assert.Equal(t, []interface{}{from, to, "Cash", "Debit", amount, "Groceries", "%food%", "%super%"}, args)
}

func TestNewTransactionQuery_OneClausePerPresentField(t *testing.T) {
	str := strPtr
	from := domain.NewDate(2024, time.January, 1)
	amount := decimal.NewFromInt(10)

	tests := []struct {
		name       string
		filter     domain.TransactionFilter
		conditions []string
	}{
		{"only to date", domain.TransactionFilter{ToDate: &from}, []string{"txn_date <= $1"}},
		{"account and notes", domain.TransactionFilter{Account: str("Cash"), Notes: str("x")}, []string{"account = $1", "notes ILIKE $2"}},
		{"amount and tags", domain.TransactionFilter{TxnAmount: &amount, Tags: str("food")}, []string{"txn_amount = $1", "tags ILIKE $2"}},
		{"category only", domain.TransactionFilter{Category: str("Bills")}, []string{"category = $1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewTransactionQuery(tt.filter)
			assert.Equal(t, tt.conditions, builder.Conditions())
			assert.Len(t, builder.Args(), len(tt.conditions))

			query, _ := builder.Build()
			assert.Equal(t, len(tt.conditions), strings.Count(query, " AND "))
		})
	}
}

func TestNewTransactionQuery_ValuesAreNeverInterpolated(t *testing.T) {
	injection := "'; DROP TABLE transactions; --"
	query, args := NewTransactionQuery(domain.TransactionFilter{
		Account: strPtr(injection),
		Notes:   strPtr(injection),
	}).Build()

	assert.NotContains(t, query, "DROP TABLE")
	assert.Equal(t, []interface{}{injection, "%'; DROP TABLE transactions; --%"}, args)
}

func TestContainsPattern_EscapesLikeWildcards(t *testing.T) {
	assert.Equal(t, "%food%", containsPattern("food"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, containsPattern(`c:\dir`))
}
