package presentation

import (
	"github.com/sebuszqo/TransactionTracker/internal/client"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"net/url"
	"strings"
	"time"
)

var AccountOptions = []string{
	"HDFC Bank Account",
	"Kotak Bank Account",
	"Equitas Bank Account",
	"Cash",
	"HDFC Credit Card",
	"Kotak Credit Card",
	"SBI Credit Card",
	"ICICI Credit Card",
	"Others",
	"Amazon Pay",
	"IDFC First Bank Account",
	"Fi Bank Account",
	"SBI Bank Account",
	"Freecharge",
	"Paytm Wallet",
	"Paytm Food Wallet",
	"Ola Money Postpaid",
	"Simpl",
	"IndusInd Credit Card",
	"Slice Credit Card",
	"DBS Bank Account",
	"Citi Bank Account",
}

var CategoryOptions = []string{
	"Salary",
	"Refund",
	"Cashback",
	"Investment Redemption",
	"Investments",
	"Loan",
	"Rent",
	"Bills",
	"Groceries",
	"Fruits & Vegetables",
	"Food & Dining",
	"Egg & Meat",
	"Household",
	"Health",
	"Personal Care",
	"Shopping",
	"Life Style",
	"Maintenance",
	"Fuel",
	"Travel",
	"Gifts",
	"Productivity",
	"Entertainment",
	"Donation",
	"ATM Withdrawal",
	"Misc",
	"Others",
}

// FilterForm holds the filter inputs as typed. An empty field applies no
// constraint.
type FilterForm struct {
	FromDate  string
	ToDate    string
	Account   string
	TxnType   string
	TxnAmount string
	Category  string
	Tags      string
	Notes     string
}

func (f FilterForm) fields() []struct{ key, value string } {
	return []struct{ key, value string }{
		{domain.FilterFromDate, f.FromDate},
		{domain.FilterToDate, f.ToDate},
		{domain.FilterAccount, f.Account},
		{domain.FilterTxnType, f.TxnType},
		{domain.FilterTxnAmount, f.TxnAmount},
		{domain.FilterCategory, f.Category},
		{domain.FilterTags, f.Tags},
		{domain.FilterNotes, f.Notes},
	}
}

// Query encodes the non-blank fields as list query parameters.
func (f FilterForm) Query() url.Values {
	query := url.Values{}
	for _, field := range f.fields() {
		if v := strings.TrimSpace(field.value); v != "" {
			query.Set(field.key, v)
		}
	}
	return query
}

// HasValues reports whether any field is set. Apply, clear and save-as-view
// are only offered then.
func (f FilterForm) HasValues() bool {
	return len(f.Query()) > 0
}

// FormFromView fills the form from a saved view. Missing fields become blank.
func FormFromView(view domain.View) FilterForm {
	form := FilterForm{
		Account:  deref(view.Account),
		Category: deref(view.Category),
		Tags:     deref(view.Tags),
		Notes:    deref(view.Notes),
	}
	if view.FromDate != nil {
		form.FromDate = view.FromDate.String()
	}
	if view.ToDate != nil {
		form.ToDate = view.ToDate.String()
	}
	if view.TxnType != nil {
		form.TxnType = string(*view.TxnType)
	}
	if view.TxnAmount != nil {
		form.TxnAmount = view.TxnAmount.String()
	}
	return form
}

// SaveViewRequest builds the request that stores the form under name. It
// reports false for a blank name.
func (f FilterForm) SaveViewRequest(name string) (client.SaveViewRequest, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return client.SaveViewRequest{}, false
	}
	return client.SaveViewRequest{
		ViewName:  name,
		FromDate:  f.FromDate,
		ToDate:    f.ToDate,
		Account:   f.Account,
		TxnType:   f.TxnType,
		TxnAmount: f.TxnAmount,
		Category:  f.Category,
		Tags:      f.Tags,
		Notes:     f.Notes,
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TransactionForm is the add/edit transaction dialog.
type TransactionForm struct {
	TxnDate   string
	Account   string
	TxnType   string
	TxnAmount string
	Category  string
	Tags      string
	Notes     string
}

// NewTransactionForm returns the add dialog defaults: today's date and a debit.
func NewTransactionForm(now time.Time) TransactionForm {
	return TransactionForm{
		TxnDate: domain.DateOf(now).String(),
		TxnType: string(domain.TxnTypeDebit),
	}
}

func FormFromTransaction(transaction domain.Transaction) TransactionForm {
	return TransactionForm{
		TxnDate:   transaction.TxnDate.String(),
		Account:   transaction.Account,
		TxnType:   string(transaction.TxnType),
		TxnAmount: transaction.TxnAmount.StringFixed(2),
		Category:  transaction.Category,
		Tags:      transaction.Tags,
		Notes:     transaction.Notes,
	}
}

// Transaction parses the form. Every problem found is returned in one
// validation error.
func (f TransactionForm) Transaction() (domain.Transaction, error) {
	transaction := domain.Transaction{
		Account:  f.Account,
		TxnType:  domain.TxnType(f.TxnType),
		Category: f.Category,
		Tags:     f.Tags,
		Notes:    f.Notes,
	}
	validationErrors := &financeErrors.ValidationErrors{}

	if strings.TrimSpace(f.TxnDate) != "" {
		txnDate, err := domain.ParseDate(f.TxnDate)
		if err != nil {
			validationErrors.Add(financeErrors.NewFieldValidationError("txn_date", "must be a date in YYYY-MM-DD format"))
		}
		transaction.TxnDate = txnDate
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(f.TxnAmount))
	if err != nil {
		validationErrors.Add(financeErrors.NewFieldValidationError("txn_amount", "must be a number"))
	}
	transaction.TxnAmount = amount

	transaction.Normalize()
	if err := transaction.Validate(); err != nil {
		for _, msg := range financeErrors.ValidationMessages(err) {
			validationErrors.Add(financeErrors.NewValidationError(msg))
		}
	}
	return transaction, validationErrors.ErrOrNil()
}
