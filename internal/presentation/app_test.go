package presentation

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/TransactionTracker/internal/client"
	"github.com/sebuszqo/TransactionTracker/internal/finance/application"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"github.com/sebuszqo/TransactionTracker/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"sync"
	"testing"
	"time"
)

// fakeAPI serves the presentation layer from the in-memory repositories.
type fakeAPI struct {
	transactions *application.TransactionService
	views        *application.ViewService

	// beforeList, when set, runs before every list call.
	beforeList   func(query url.Values)
	mutationErr  error
	listCalls    int
	lastQuery    url.Values
	deleteViewFn func(viewID int64) error
	mu           sync.Mutex
}

func newFakeAPI(seed ...domain.Transaction) *fakeAPI {
	return &fakeAPI{
		transactions: application.NewTransactionService(&infrastructure.MockTransactionRepository{Transactions: seed}),
		views:        application.NewViewService(&infrastructure.MockViewRepository{}),
	}
}

func (f *fakeAPI) ListTransactions(ctx context.Context, query url.Values) ([]domain.Transaction, error) {
	if f.beforeList != nil {
		f.beforeList(query)
	}
	f.mu.Lock()
	f.listCalls++
	f.lastQuery = query
	f.mu.Unlock()

	filter, err := domain.ParseTransactionFilter(query)
	if err != nil {
		return nil, err
	}
	return f.transactions.ListTransactions(ctx, filter)
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return f.transactions.CreateTransaction(ctx, transaction)
}

func (f *fakeAPI) UpdateTransaction(ctx context.Context, transactionID int64, transaction domain.Transaction) (*domain.Transaction, error) {
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return f.transactions.UpdateTransaction(ctx, transactionID, transaction)
}

func (f *fakeAPI) DeleteTransaction(ctx context.Context, transactionID int64) error {
	if f.mutationErr != nil {
		return f.mutationErr
	}
	_, err := f.transactions.DeleteTransaction(ctx, transactionID)
	return err
}

func (f *fakeAPI) ListViews(ctx context.Context) ([]domain.View, error) {
	return f.views.ListViews(ctx)
}

func (f *fakeAPI) SaveView(ctx context.Context, req client.SaveViewRequest) (*domain.View, error) {
	return f.views.SaveView(ctx, application.ViewInput{
		ViewName:  req.ViewName,
		FromDate:  &req.FromDate,
		ToDate:    &req.ToDate,
		Account:   &req.Account,
		TxnType:   &req.TxnType,
		TxnAmount: &req.TxnAmount,
		Category:  &req.Category,
		Tags:      &req.Tags,
		Notes:     &req.Notes,
	})
}

func (f *fakeAPI) DeleteView(ctx context.Context, viewID int64) error {
	if f.deleteViewFn != nil {
		return f.deleteViewFn(viewID)
	}
	_, err := f.views.DeleteView(ctx, viewID)
	return err
}

func seed() []domain.Transaction {
	return []domain.Transaction{
		{ID: 1, TxnDate: domain.NewDate(2024, time.January, 5), Account: "Cash", TxnType: domain.TxnTypeDebit,
			TxnAmount: decimal.RequireFromString("250.00"), Category: "Groceries", Tags: "food,weekly", Notes: "supermarket"},
		{ID: 2, TxnDate: domain.NewDate(2024, time.February, 1), Account: "HDFC Bank Account", TxnType: domain.TxnTypeCredit,
			TxnAmount: decimal.RequireFromString("3000.00"), Category: "Salary"},
		{ID: 3, TxnDate: domain.NewDate(2024, time.February, 3), Account: "Cash", TxnType: domain.TxnTypeDebit,
			TxnAmount: decimal.RequireFromString("80.00"), Category: "Bills"},
	}
}

func TestApp_LoadAndFilter(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)
	app := NewApp(api, zerolog.Nop())

	require.NoError(t, app.Load(ctx))
	assert.Len(t, app.State().Transactions, 3)

	require.NoError(t, app.ApplyFilters(ctx, FilterForm{Account: "Cash"}))
	state := app.State()
	require.Len(t, state.Transactions, 2)
	assert.Equal(t, int64(3), state.Transactions[0].ID)
	assert.Equal(t, "Cash", state.Filters.Account)

	require.NoError(t, app.ClearFilters(ctx))
	state = app.State()
	assert.Len(t, state.Transactions, 3)
	assert.Equal(t, FilterForm{}, state.Filters)
}

func TestApp_SaveSelectAndDeleteView(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)
	app := NewApp(api, zerolog.Nop())
	require.NoError(t, app.Load(ctx))

	require.NoError(t, app.ApplyFilters(ctx, FilterForm{Category: "Groceries", FromDate: "2024-01-01", ToDate: "2024-03-31"}))
	view, err := app.SaveView(ctx, " Groceries Q1 ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries Q1", view.ViewName)
	assert.Nil(t, view.Account)
	require.Len(t, app.State().Views, 1)

	_, err = app.SaveView(ctx, "  ")
	assert.ErrorIs(t, err, ErrBlankViewName)

	require.NoError(t, app.ClearFilters(ctx))
	require.NoError(t, app.SelectView(ctx, view.ID))
	state := app.State()
	assert.Equal(t, view.ID, state.SelectedViewID)
	assert.Equal(t, FilterForm{Category: "Groceries", FromDate: "2024-01-01", ToDate: "2024-03-31"}, state.Filters)
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, int64(1), state.Transactions[0].ID)

	require.NoError(t, app.DeleteView(ctx, view.ID))
	state = app.State()
	assert.Empty(t, state.Views)
	assert.Zero(t, state.SelectedViewID)
	assert.Equal(t, FilterForm{}, state.Filters)
	assert.Len(t, state.Transactions, 3)

	assert.ErrorIs(t, app.SelectView(ctx, view.ID), ErrUnknownView)
}

func TestApp_DeleteViewFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	deleteErr := errors.New("Failed to delete view")
	api.deleteViewFn = func(int64) error { return deleteErr }
	app := NewApp(api, zerolog.Nop())

	assert.ErrorIs(t, app.DeleteView(ctx, 1), deleteErr)
	assert.Empty(t, app.State().Notices)
}

func TestApp_TransactionMutationsRefetchWithCurrentFilters(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)
	app := NewApp(api, zerolog.Nop())
	require.NoError(t, app.ApplyFilters(ctx, FilterForm{Account: "Cash"}))

	form := NewTransactionForm(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	form.Account = "Cash"
	form.TxnAmount = "12.5"
	form.Category = "Fuel"
	require.NoError(t, app.AddTransaction(ctx, form))

	state := app.State()
	require.Len(t, state.Transactions, 3)
	assert.Equal(t, "Fuel", state.Transactions[0].Category)
	assert.Equal(t, "Cash", api.lastQuery.Get("account"))
	assert.Equal(t, []Notice{{Level: NoticeSuccess, Message: "Transaction added successfully"}}, state.Notices)

	edit := FormFromTransaction(state.Transactions[0])
	edit.Account = "Amazon Pay"
	require.NoError(t, app.UpdateTransaction(ctx, state.Transactions[0].ID, edit))
	assert.Len(t, app.State().Transactions, 2)

	require.NoError(t, app.DeleteTransaction(ctx, 3))
	state = app.State()
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "Transaction deleted successfully", state.Notices[len(state.Notices)-1].Message)
}

func TestApp_TransactionMutationFailureBecomesNotice(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)
	api.mutationErr = errors.New("503 Service Unavailable")
	app := NewApp(api, zerolog.Nop())

	err := app.DeleteTransaction(ctx, 1)
	assert.ErrorIs(t, err, api.mutationErr)
	assert.Equal(t, []Notice{{Level: NoticeError, Message: "Failed to delete transaction. Please try again."}}, app.State().Notices)
	assert.Zero(t, api.listCalls)
}

func TestApp_InvalidFormIsNotSent(t *testing.T) {
	api := newFakeAPI()
	app := NewApp(api, zerolog.Nop())

	err := app.AddTransaction(context.Background(), TransactionForm{TxnType: "Debit"})
	require.Error(t, err)
	assert.Empty(t, app.State().Notices)
	assert.Zero(t, api.listCalls)
}

func TestApp_StaleListResponseIsDropped(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	api.beforeList = func(query url.Values) {
		if query.Get("category") == "Groceries" {
			close(slowStarted)
			<-releaseSlow
		}
	}
	app := NewApp(api, zerolog.Nop())

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- app.ApplyFilters(ctx, FilterForm{Category: "Groceries"})
	}()
	<-slowStarted

	require.NoError(t, app.ApplyFilters(ctx, FilterForm{Category: "Salary"}))
	close(releaseSlow)
	require.NoError(t, <-slowDone)

	state := app.State()
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "Salary", state.Transactions[0].Category)
}

func TestApp_StaleListFailureIsDropped(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(seed()...)

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	api.beforeList = func(query url.Values) {
		if query.Get("category") == "Groceries" {
			close(slowStarted)
			<-releaseSlow
		}
	}
	app := NewApp(api, zerolog.Nop())

	slowDone := make(chan error, 1)
	go func() {
		// the slow request fails on a malformed amount once it is released
		slowDone <- app.ApplyFilters(ctx, FilterForm{Category: "Groceries", TxnAmount: "ten"})
	}()
	<-slowStarted

	require.NoError(t, app.ApplyFilters(ctx, FilterForm{Category: "Salary"}))
	close(releaseSlow)
	assert.NoError(t, <-slowDone)

	state := app.State()
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "Salary", state.Transactions[0].Category)
}
