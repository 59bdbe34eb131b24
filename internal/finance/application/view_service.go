package application

import (
	"context"
	"errors"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"strings"
)

// ViewInput is a save-view request as sent by the client. Every filter field
// may be nil, blank or a value.
type ViewInput struct {
	ViewName  string
	FromDate  *string
	ToDate    *string
	Account   *string
	TxnType   *string
	TxnAmount *string
	Category  *string
	Tags      *string
	Notes     *string
}

type ViewService struct {
	repo domain.ViewRepository
}

func NewViewService(repo domain.ViewRepository) *ViewService {
	return &ViewService{repo: repo}
}

func (s *ViewService) ListViews(ctx context.Context) ([]domain.View, error) {
	return s.repo.FindAll(ctx)
}

// SaveView stores the filters under the given name. An existing view with the
// same name is overwritten in full and keeps its id.
func (s *ViewService) SaveView(ctx context.Context, input ViewInput) (*domain.View, error) {
	viewName, filters, err := NormalizeViewInput(input)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindByName(ctx, viewName)
	switch {
	case err == nil:
		return s.repo.UpdateByName(ctx, viewName, filters)
	case !errors.Is(err, financeErrors.ErrViewNotFound):
		return nil, err
	}

	view, err := s.repo.Create(ctx, viewName, filters)
	if !errors.Is(err, financeErrors.ErrViewNameTaken) {
		return view, err
	}
	// a concurrent save inserted the same name first
	view, err = s.repo.UpdateByName(ctx, viewName, filters)
	if errors.Is(err, financeErrors.ErrViewNotFound) {
		// and a concurrent delete removed it again
		return s.repo.Create(ctx, viewName, filters)
	}
	return view, err
}

func (s *ViewService) DeleteView(ctx context.Context, viewID int64) (*domain.View, error) {
	return s.repo.Delete(ctx, viewID)
}

// NormalizeViewInput trims the view name and turns every blank or missing
// filter field into nil. Malformed dates, amounts and transaction types are
// reported together as validation errors.
func NormalizeViewInput(input ViewInput) (string, domain.ViewFilters, error) {
	var filters domain.ViewFilters
	validationErrors := &financeErrors.ValidationErrors{}

	viewName := strings.TrimSpace(input.ViewName)
	if viewName == "" {
		validationErrors.Add(financeErrors.NewFieldValidationError("view_name", "is required"))
	}

	if v := blankToNil(input.FromDate); v != nil {
		d, err := domain.ParseDate(*v)
		if err != nil {
			validationErrors.Add(financeErrors.NewFieldValidationError("from_date_txn_date", "must be a date in YYYY-MM-DD format"))
		} else {
			filters.FromDate = &d
		}
	}
	if v := blankToNil(input.ToDate); v != nil {
		d, err := domain.ParseDate(*v)
		if err != nil {
			validationErrors.Add(financeErrors.NewFieldValidationError("to_date_txn_date", "must be a date in YYYY-MM-DD format"))
		} else {
			filters.ToDate = &d
		}
	}
	if v := blankToNil(input.TxnType); v != nil {
		txnType := domain.TxnType(*v)
		if !domain.IsValidTxnType(txnType) {
			validationErrors.Add(financeErrors.NewFieldValidationError("txn_type", "must be 'Credit', 'Debit' or 'Others'"))
		} else {
			filters.TxnType = &txnType
		}
	}
	if v := blankToNil(input.TxnAmount); v != nil {
		amount, err := decimal.NewFromString(*v)
		if err != nil {
			validationErrors.Add(financeErrors.NewFieldValidationError("txn_amount", "must be a number"))
		} else if rounded, ok := domain.NormalizeAmount(amount); !ok {
			validationErrors.Add(domain.NewAmountRangeError("txn_amount"))
		} else {
			filters.TxnAmount = &rounded
		}
	}
	filters.Account = blankToNil(input.Account)
	filters.Category = blankToNil(input.Category)
	filters.Tags = blankToNil(input.Tags)
	filters.Notes = blankToNil(input.Notes)

	if err := validationErrors.ErrOrNil(); err != nil {
		return "", domain.ViewFilters{}, err
	}
	return viewName, filters, nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
