package presentation

import (
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"strconv"
)

// Row is one transaction formatted for display.
type Row struct {
	ID       string
	Date     string
	Account  string
	Type     string
	Amount   string
	Category string
	Tags     string
	Notes    string
}

var GridHeader = Row{
	ID:       "ID",
	Date:     "DATE",
	Account:  "ACCOUNT",
	Type:     "TYPE",
	Amount:   "AMOUNT",
	Category: "CATEGORY",
	Tags:     "TAGS",
	Notes:    "NOTES",
}

func Rows(transactions []domain.Transaction) []Row {
	rows := make([]Row, 0, len(transactions))
	for _, transaction := range transactions {
		rows = append(rows, Row{
			ID:       strconv.FormatInt(transaction.ID, 10),
			Date:     transaction.TxnDate.String(),
			Account:  transaction.Account,
			Type:     string(transaction.TxnType),
			Amount:   transaction.TxnAmount.StringFixed(2),
			Category: transaction.Category,
			Tags:     transaction.Tags,
			Notes:    transaction.Notes,
		})
	}
	return rows
}

func (r Row) Cells() []string {
	return []string{r.ID, r.Date, r.Account, r.Type, r.Amount, r.Category, r.Tags, r.Notes}
}
