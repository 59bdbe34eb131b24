package domain

import (
	"context"
	"encoding/json"
	"github.com/shopspring/decimal"
)

type ViewRepository interface {
	FindAll(ctx context.Context) ([]View, error)
	FindByName(ctx context.Context, viewName string) (*View, error)
	Create(ctx context.Context, viewName string, filters ViewFilters) (*View, error)
	UpdateByName(ctx context.Context, viewName string, filters ViewFilters) (*View, error)
	Delete(ctx context.Context, viewID int64) (*View, error)
}

// ViewFilters is the saved filter set of a view. A nil field means the view
// does not constrain that field and is stored as NULL.
type ViewFilters struct {
	FromDate  *Date            `json:"from_date_txn_date"`
	ToDate    *Date            `json:"to_date_txn_date"`
	Account   *string          `json:"account"`
	TxnType   *TxnType         `json:"txn_type"`
	TxnAmount *decimal.Decimal `json:"txn_amount"`
	Category  *string          `json:"category"`
	Tags      *string          `json:"tags"`
	Notes     *string          `json:"notes"`
}

type View struct {
	ID       int64  `json:"id"`
	ViewName string `json:"view_name"`
	ViewFilters
}

// MarshalJSON writes txn_amount with exactly two decimal places, or null.
func (v View) MarshalJSON() ([]byte, error) {
	type viewJSON View
	var amount *string
	if v.TxnAmount != nil {
		fixed := v.TxnAmount.StringFixed(2)
		amount = &fixed
	}
	return json.Marshal(struct {
		viewJSON
		TxnAmount *string `json:"txn_amount"`
	}{viewJSON(v), amount})
}

// TransactionFilter returns the list filter the view stands for.
func (f ViewFilters) TransactionFilter() TransactionFilter {
	return TransactionFilter{
		FromDate:  f.FromDate,
		ToDate:    f.ToDate,
		Account:   f.Account,
		TxnType:   f.TxnType,
		TxnAmount: f.TxnAmount,
		Category:  f.Category,
		Tags:      f.Tags,
		Notes:     f.Notes,
	}
}
