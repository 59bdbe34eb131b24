package infrastructure

import (
	"fmt"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"strconv"
	"strings"
)

const transactionColumns = "id, txn_date, account, txn_type, txn_amount, category, tags, notes"

// predicate is one comparison of the WHERE clause. template holds a single %s
// verb that is replaced by the positional placeholder of value.
type predicate struct {
	template string
	value    interface{}
}

// QueryBuilder assembles a SELECT with an AND-joined list of parameterized
// predicates. Values are only ever bound, never written into the SQL text.
type QueryBuilder struct {
	selectFrom string
	predicates []predicate
	orderBy    string
}

func NewQueryBuilder(selectFrom string) *QueryBuilder {
	return &QueryBuilder{selectFrom: selectFrom}
}

func (b *QueryBuilder) Where(template string, value interface{}) *QueryBuilder {
	b.predicates = append(b.predicates, predicate{template: template, value: value})
	return b
}

func (b *QueryBuilder) OrderBy(orderBy string) *QueryBuilder {
	b.orderBy = orderBy
	return b
}

// Conditions renders the predicates with their placeholders, without the base
// condition.
func (b *QueryBuilder) Conditions() []string {
	conditions := make([]string, len(b.predicates))
	for i, p := range b.predicates {
		conditions[i] = fmt.Sprintf(p.template, "$"+strconv.Itoa(i+1))
	}
	return conditions
}

func (b *QueryBuilder) Args() []interface{} {
	args := make([]interface{}, len(b.predicates))
	for i, p := range b.predicates {
		args[i] = p.value
	}
	return args
}

func (b *QueryBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(b.selectFrom)
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(append([]string{"1=1"}, b.Conditions()...), " AND "))
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	return sb.String(), b.Args()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into an ILIKE pattern matching s literally anywhere
// in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// NewTransactionQuery builds the list query for filter: one predicate per
// present field, newest transactions first.
func NewTransactionQuery(filter domain.TransactionFilter) *QueryBuilder {
	b := NewQueryBuilder("SELECT " + transactionColumns + " FROM transactions")

	if filter.FromDate != nil {
		b.Where("txn_date >= %s", *filter.FromDate)
	}
	if filter.ToDate != nil {
		b.Where("txn_date <= %s", *filter.ToDate)
	}
	if filter.Account != nil {
		b.Where("account = %s", *filter.Account)
	}
	if filter.TxnType != nil {
		b.Where("txn_type = %s", string(*filter.TxnType))
	}
	if filter.TxnAmount != nil {
		b.Where("txn_amount = %s", *filter.TxnAmount)
	}
	if filter.Category != nil {
		b.Where("category = %s", *filter.Category)
	}
	if filter.Tags != nil {
		b.Where("tags ILIKE %s", containsPattern(*filter.Tags))
	}
	if filter.Notes != nil {
		b.Where("notes ILIKE %s", containsPattern(*filter.Notes))
	}

	return b.OrderBy("txn_date DESC, id DESC")
}
