package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const viewColumns = "id, view_name, from_date_txn_date, to_date_txn_date, account, txn_type, txn_amount, category, tags, notes"

// SQLSTATE unique_violation
const uniqueViolationCode = "23505"

type ViewRepository struct {
	db *sql.DB
}

func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func scanView(row rowScanner) (*domain.View, error) {
	var (
		view                       domain.View
		fromDate, toDate           sql.NullTime
		account, txnType, category sql.NullString
		tags, notes                sql.NullString
		txnAmount                  decimal.NullDecimal
	)
	if err := row.Scan(&view.ID, &view.ViewName, &fromDate, &toDate, &account, &txnType,
		&txnAmount, &category, &tags, &notes); err != nil {
		return nil, err
	}

	if fromDate.Valid {
		d := domain.DateOf(fromDate.Time)
		view.FromDate = &d
	}
	if toDate.Valid {
		d := domain.DateOf(toDate.Time)
		view.ToDate = &d
	}
	if txnType.Valid {
		t := domain.TxnType(txnType.String)
		view.TxnType = &t
	}
	if txnAmount.Valid {
		amount := txnAmount.Decimal
		view.TxnAmount = &amount
	}
	view.Account = nullStringPtr(account)
	view.Category = nullStringPtr(category)
	view.Tags = nullStringPtr(tags)
	view.Notes = nullStringPtr(notes)
	return &view, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(d *domain.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullTxnType(t *domain.TxnType) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*t), Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// filterArgs returns the eight filter columns in table order.
func filterArgs(filters domain.ViewFilters) []interface{} {
	return []interface{}{
		nullDate(filters.FromDate),
		nullDate(filters.ToDate),
		nullString(filters.Account),
		nullTxnType(filters.TxnType),
		nullDecimal(filters.TxnAmount),
		nullString(filters.Category),
		nullString(filters.Tags),
		nullString(filters.Notes),
	}
}

func (r *ViewRepository) FindAll(ctx context.Context) ([]domain.View, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+viewColumns+` FROM transaction_views ORDER BY view_name`)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	views := []domain.View{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		views = append(views, *view)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}
	return views, nil
}

func (r *ViewRepository) FindByName(ctx context.Context, viewName string) (*domain.View, error) {
	query := `SELECT ` + viewColumns + ` FROM transaction_views WHERE view_name = $1`

	view, err := scanView(r.db.QueryRowContext(ctx, query, viewName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrViewNotFound
		}
		return nil, fmt.Errorf("find view %q: %w", viewName, err)
	}
	return view, nil
}

func (r *ViewRepository) Create(ctx context.Context, viewName string, filters domain.ViewFilters) (*domain.View, error) {
	query := `
        INSERT INTO transaction_views (
            view_name,
            from_date_txn_date,
            to_date_txn_date,
            account,
            txn_type,
            txn_amount,
            category,
            tags,
            notes
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + viewColumns

	args := append([]interface{}{viewName}, filterArgs(filters)...)
	view, err := scanView(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, financeErrors.ErrViewNameTaken
		}
		return nil, fmt.Errorf("insert view %q: %w", viewName, err)
	}
	return view, nil
}

func (r *ViewRepository) UpdateByName(ctx context.Context, viewName string, filters domain.ViewFilters) (*domain.View, error) {
	query := `
        UPDATE transaction_views
        SET from_date_txn_date = $1,
            to_date_txn_date = $2,
            account = $3,
            txn_type = $4,
            txn_amount = $5,
            category = $6,
            tags = $7,
            notes = $8
        WHERE view_name = $9
        RETURNING ` + viewColumns

	args := append(filterArgs(filters), viewName)
	view, err := scanView(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrViewNotFound
		}
		return nil, fmt.Errorf("update view %q: %w", viewName, err)
	}
	return view, nil
}

func (r *ViewRepository) Delete(ctx context.Context, viewID int64) (*domain.View, error) {
	query := `DELETE FROM transaction_views WHERE id = $1 RETURNING ` + viewColumns

	view, err := scanView(r.db.QueryRowContext(ctx, query, viewID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrViewNotFound
		}
		return nil, fmt.Errorf("delete view %d: %w", viewID, err)
	}
	return view, nil
}
