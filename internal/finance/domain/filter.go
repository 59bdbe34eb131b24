package domain

import (
	"github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"net/url"
	"strings"
)

// Query parameter names accepted by the transaction list endpoint.
const (
	FilterFromDate  = "fromDate"
	FilterToDate    = "toDate"
	FilterAccount   = "account"
	FilterTxnType   = "txnType"
	FilterTxnAmount = "txnAmount"
	FilterCategory  = "category"
	FilterTags      = "tags"
	FilterNotes     = "notes"
)

// TransactionFilter narrows the transaction list. A nil field applies no
// constraint.
type TransactionFilter struct {
	FromDate  *Date
	ToDate    *Date
	Account   *string
	TxnType   *TxnType
	TxnAmount *decimal.Decimal
	Category  *string
	Tags      *string
	Notes     *string
}

// ParseTransactionFilter reads a filter from query parameters. Absent or blank
// parameters are not applied; a malformed date or amount is a validation error.
func ParseTransactionFilter(query url.Values) (TransactionFilter, error) {
	var filter TransactionFilter
	validationErrors := &errors.ValidationErrors{}

	if v := queryValue(query, FilterFromDate); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			validationErrors.Add(errors.NewFieldValidationError(FilterFromDate, "must be a date in YYYY-MM-DD format"))
		} else {
			filter.FromDate = &d
		}
	}
	if v := queryValue(query, FilterToDate); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			validationErrors.Add(errors.NewFieldValidationError(FilterToDate, "must be a date in YYYY-MM-DD format"))
		} else {
			filter.ToDate = &d
		}
	}
	if v := queryValue(query, FilterAccount); v != "" {
		filter.Account = &v
	}
	if v := queryValue(query, FilterTxnType); v != "" {
		txnType := TxnType(v)
		filter.TxnType = &txnType
	}
	if v := queryValue(query, FilterTxnAmount); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			validationErrors.Add(errors.NewFieldValidationError(FilterTxnAmount, "must be a number"))
		} else if _, ok := NormalizeAmount(amount); !ok {
			validationErrors.Add(NewAmountRangeError(FilterTxnAmount))
		} else {
			filter.TxnAmount = &amount
		}
	}
	if v := queryValue(query, FilterCategory); v != "" {
		filter.Category = &v
	}
	if v := queryValue(query, FilterTags); v != "" {
		filter.Tags = &v
	}
	if v := queryValue(query, FilterNotes); v != "" {
		filter.Notes = &v
	}

	if err := validationErrors.ErrOrNil(); err != nil {
		return TransactionFilter{}, err
	}
	return filter, nil
}

func queryValue(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}

// Values encodes the filter back into query parameters, omitting absent fields.
func (f TransactionFilter) Values() url.Values {
	values := url.Values{}
	if f.FromDate != nil {
		values.Set(FilterFromDate, f.FromDate.String())
	}
	if f.ToDate != nil {
		values.Set(FilterToDate, f.ToDate.String())
	}
	if f.Account != nil {
		values.Set(FilterAccount, *f.Account)
	}
	if f.TxnType != nil {
		values.Set(FilterTxnType, string(*f.TxnType))
	}
	if f.TxnAmount != nil {
		values.Set(FilterTxnAmount, f.TxnAmount.String())
	}
	if f.Category != nil {
		values.Set(FilterCategory, *f.Category)
	}
	if f.Tags != nil {
		values.Set(FilterTags, *f.Tags)
	}
	if f.Notes != nil {
		values.Set(FilterNotes, *f.Notes)
	}
	return values
}

func (f TransactionFilter) IsEmpty() bool {
	return len(f.Values()) == 0
}

// Matches evaluates the filter against a single transaction with the same
// semantics as the SQL predicate: inclusive date bounds, exact equality for
// account, type, category and amount, case-insensitive substring for tags
// and notes.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.FromDate != nil && t.TxnDate.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && t.TxnDate.After(*f.ToDate) {
		return false
	}
	if f.Account != nil && t.Account != *f.Account {
		return false
	}
	if f.TxnType != nil && t.TxnType != *f.TxnType {
		return false
	}
	if f.TxnAmount != nil && !t.TxnAmount.Equal(*f.TxnAmount) {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Tags != nil && !containsFold(t.Tags, *f.Tags) {
		return false
	}
	if f.Notes != nil && !containsFold(t.Notes, *f.Notes) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
