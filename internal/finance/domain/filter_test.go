package domain

import (
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
	"time"
)

func groceriesTransaction() Transaction {
	return Transaction{
		ID:        1,
		TxnDate:   NewDate(2024, time.January, 5),
		Account:   "Cash",
		TxnType:   TxnTypeDebit,
		TxnAmount: decimal.RequireFromString("250.00"),
		Category:  "Groceries",
		Tags:      "food,weekly",
		Notes:     "supermarket",
	}
}

func TestParseTransactionFilter_Empty(t *testing.T) {
	filter, err := ParseTransactionFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, filter.IsEmpty())
	assert.True(t, filter.Matches(groceriesTransaction()))
}

func TestParseTransactionFilter_BlankValuesAreNotApplied(t *testing.T) {
	query := url.Values{
		FilterAccount:   {""},
		FilterTags:      {"   "},
		FilterTxnAmount: {""},
		FilterFromDate:  {""},
	}
	filter, err := ParseTransactionFilter(query)
	require.NoError(t, err)
	assert.Nil(t, filter.Account)
	assert.Nil(t, filter.Tags)
	assert.Nil(t, filter.TxnAmount)
	assert.Nil(t, filter.FromDate)
}

func TestParseTransactionFilter_AllFields(t *testing.T) {
	query := url.Values{
		FilterFromDate:  {"2024-01-01"},
		FilterToDate:    {"2024-03-31"},
		FilterAccount:   {"Cash"},
		FilterTxnType:   {"Debit"},
		FilterTxnAmount: {"250"},
		FilterCategory:  {"Groceries"},
		FilterTags:      {"FOOD"},
		FilterNotes:     {"market"},
	}
	filter, err := ParseTransactionFilter(query)
	require.NoError(t, err)

	assert.Equal(t, NewDate(2024, time.January, 1), *filter.FromDate)
	assert.Equal(t, NewDate(2024, time.March, 31), *filter.ToDate)
	assert.Equal(t, "Cash", *filter.Account)
	assert.Equal(t, TxnTypeDebit, *filter.TxnType)
	assert.True(t, decimal.NewFromInt(250).Equal(*filter.TxnAmount))
	assert.Equal(t, "Groceries", *filter.Category)
	assert.Equal(t, "FOOD", *filter.Tags)
	assert.Equal(t, "market", *filter.Notes)

	assert.True(t, filter.Matches(groceriesTransaction()))
	assert.Equal(t, query, filter.Values())
}

func TestParseTransactionFilter_InvalidAmountAndDate(t *testing.T) {
	query := url.Values{
		FilterTxnAmount: {"abc"},
		FilterToDate:    {"31/03/2024"},
	}
	_, err := ParseTransactionFilter(query)
	require.Error(t, err)
	assert.True(t, financeErrors.IsValidationError(err))
	assert.ElementsMatch(t, []string{
		"txnAmount must be a number",
		"toDate must be a date in YYYY-MM-DD format",
	}, financeErrors.ValidationMessages(err))
}

func TestTransactionFilter_Matches(t *testing.T) {
	txn := groceriesTransaction()
	str := func(s string) *string { return &s }
	date := func(y int, m time.Month, d int) *Date { v := NewDate(y, m, d); return &v }
	amount := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }
	debit, credit := TxnTypeDebit, TxnTypeCredit

	tests := []struct {
		name   string
		filter TransactionFilter
		want   bool
	}{
		{"from date inclusive", TransactionFilter{FromDate: date(2024, time.January, 5)}, true},
		{"from date after", TransactionFilter{FromDate: date(2024, time.January, 6)}, false},
		{"to date inclusive", TransactionFilter{ToDate: date(2024, time.January, 5)}, true},
		{"to date before", TransactionFilter{ToDate: date(2024, time.January, 4)}, false},
		{"account exact", TransactionFilter{Account: str("Cash")}, true},
		{"account is not a substring match", TransactionFilter{Account: str("Cas")}, false},
		{"account is case sensitive", TransactionFilter{Account: str("cash")}, false},
		{"type", TransactionFilter{TxnType: &debit}, true},
		{"other type", TransactionFilter{TxnType: &credit}, false},
		{"amount equal with different scale", TransactionFilter{TxnAmount: amount("250")}, true},
		{"amount differs", TransactionFilter{TxnAmount: amount("250.01")}, false},
		{"category", TransactionFilter{Category: str("Groceries")}, true},
		{"tags substring case-insensitive", TransactionFilter{Tags: str("food")}, true},
		{"tags upper case", TransactionFilter{Tags: str("WEEKLY")}, true},
		{"tags no match", TransactionFilter{Tags: str("xyz")}, false},
		{"notes substring", TransactionFilter{Notes: str("Market")}, true},
		{"all present must hold", TransactionFilter{Account: str("Cash"), Tags: str("xyz")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(txn))
		})
	}
}

func TestViewFilters_TransactionFilter(t *testing.T) {
	category := "Groceries"
	from := NewDate(2024, time.January, 1)
	view := View{ID: 3, ViewName: "Groceries Q1", ViewFilters: ViewFilters{FromDate: &from, Category: &category}}

	filter := view.TransactionFilter()
	assert.Equal(t, url.Values{
		FilterFromDate: {"2024-01-01"},
		FilterCategory: {"Groceries"},
	}, filter.Values())
}
