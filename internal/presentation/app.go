package presentation

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/TransactionTracker/internal/client"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"net/url"
	"sync"
	"sync/atomic"
)

var (
	ErrBlankViewName = errors.New("view name must not be blank")
	ErrUnknownView   = errors.New("view is not in the list")
)

// API is the part of the tracker API the presentation layer drives.
type API interface {
	ListTransactions(ctx context.Context, query url.Values) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID int64, transaction domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID int64) error
	ListViews(ctx context.Context) ([]domain.View, error)
	SaveView(ctx context.Context, req client.SaveViewRequest) (*domain.View, error)
	DeleteView(ctx context.Context, viewID int64) error
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message shown to the user after a mutation.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// State is everything the screen shows. SelectedViewID is 0 when no view is
// selected.
type State struct {
	Transactions   []domain.Transaction
	Views          []domain.View
	Filters        FilterForm
	SelectedViewID int64
	Notices        []Notice
}

// App maps user actions to API calls and keeps the resulting State. The list
// is only fetched on explicit actions.
type App struct {
	api API
	log zerolog.Logger

	mu    sync.Mutex
	state State

	// latestFetch is the token of the newest transaction-list request. A
	// response carrying an older token is dropped.
	latestFetch atomic.Uint64
}

func NewApp(api API, log zerolog.Logger) *App {
	return &App{api: api, log: log}
}

// State returns a copy of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.state
	state.Transactions = append([]domain.Transaction(nil), a.state.Transactions...)
	state.Views = append([]domain.View(nil), a.state.Views...)
	state.Notices = append([]Notice(nil), a.state.Notices...)
	return state
}

// Load fetches the unfiltered list and the saved views.
func (a *App) Load(ctx context.Context) error {
	if err := a.fetchTransactions(ctx, a.filters()); err != nil {
		return err
	}
	return a.fetchViews(ctx)
}

func (a *App) ApplyFilters(ctx context.Context, filters FilterForm) error {
	a.mu.Lock()
	a.state.Filters = filters
	a.mu.Unlock()

	return a.fetchTransactions(ctx, filters)
}

// ClearFilters resets every filter field and the view selection.
func (a *App) ClearFilters(ctx context.Context) error {
	a.mu.Lock()
	a.state.Filters = FilterForm{}
	a.state.SelectedViewID = 0
	a.mu.Unlock()

	return a.fetchTransactions(ctx, FilterForm{})
}

// SelectView copies the filters of a listed view into the form and fetches
// with them.
func (a *App) SelectView(ctx context.Context, viewID int64) error {
	a.mu.Lock()
	var filters FilterForm
	found := false
	for _, view := range a.state.Views {
		if view.ID == viewID {
			filters = FormFromView(view)
			found = true
			break
		}
	}
	if !found {
		a.mu.Unlock()
		return fmt.Errorf("select view %d: %w", viewID, ErrUnknownView)
	}
	a.state.SelectedViewID = viewID
	a.state.Filters = filters
	a.mu.Unlock()

	return a.fetchTransactions(ctx, filters)
}

// SaveView stores the current filters under name and refreshes the views.
func (a *App) SaveView(ctx context.Context, name string) (*domain.View, error) {
	req, ok := a.filters().SaveViewRequest(name)
	if !ok {
		return nil, ErrBlankViewName
	}

	view, err := a.api.SaveView(ctx, req)
	if err != nil {
		a.log.Error().Err(err).Str("view_name", req.ViewName).Msg("Error saving view")
		return nil, err
	}
	if err := a.fetchViews(ctx); err != nil {
		return view, err
	}
	return view, nil
}

// DeleteView removes a view. Failures are returned to the caller. Deleting the
// selected view also clears the selection and the filters.
func (a *App) DeleteView(ctx context.Context, viewID int64) error {
	if err := a.api.DeleteView(ctx, viewID); err != nil {
		a.log.Error().Err(err).Int64("view_id", viewID).Msg("Error deleting view")
		return err
	}
	if err := a.fetchViews(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	wasSelected := a.state.SelectedViewID == viewID
	if wasSelected {
		a.state.SelectedViewID = 0
		a.state.Filters = FilterForm{}
	}
	a.mu.Unlock()

	if wasSelected {
		return a.fetchTransactions(ctx, FilterForm{})
	}
	return nil
}

func (a *App) AddTransaction(ctx context.Context, form TransactionForm) error {
	transaction, err := form.Transaction()
	if err != nil {
		return err
	}
	if _, err := a.api.CreateTransaction(ctx, transaction); err != nil {
		return a.mutationFailed(err, "Failed to save transaction. Please try again.")
	}
	a.notify(NoticeSuccess, "Transaction added successfully")
	return a.refetch(ctx)
}

func (a *App) UpdateTransaction(ctx context.Context, transactionID int64, form TransactionForm) error {
	transaction, err := form.Transaction()
	if err != nil {
		return err
	}
	if _, err := a.api.UpdateTransaction(ctx, transactionID, transaction); err != nil {
		return a.mutationFailed(err, "Failed to save transaction. Please try again.")
	}
	a.notify(NoticeSuccess, "Transaction updated successfully")
	return a.refetch(ctx)
}

func (a *App) DeleteTransaction(ctx context.Context, transactionID int64) error {
	if err := a.api.DeleteTransaction(ctx, transactionID); err != nil {
		return a.mutationFailed(err, "Failed to delete transaction. Please try again.")
	}
	a.notify(NoticeSuccess, "Transaction deleted successfully")
	return a.refetch(ctx)
}

func (a *App) mutationFailed(err error, message string) error {
	a.log.Error().Err(err).Msg(message)
	a.notify(NoticeError, message)
	return err
}

func (a *App) notify(level NoticeLevel, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Notices = append(a.state.Notices, Notice{Level: level, Message: message})
}

func (a *App) filters() FilterForm {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Filters
}

func (a *App) refetch(ctx context.Context) error {
	return a.fetchTransactions(ctx, a.filters())
}

func (a *App) fetchTransactions(ctx context.Context, filters FilterForm) error {
	token := a.latestFetch.Add(1)

	transactions, err := a.api.ListTransactions(ctx, filters.Query())

	a.mu.Lock()
	defer a.mu.Unlock()
	if token != a.latestFetch.Load() {
		a.log.Debug().Err(err).Uint64("token", token).Msg("Dropping stale transaction list")
		return nil
	}
	if err != nil {
		a.log.Error().Err(err).Msg("Error fetching transactions")
		return err
	}
	a.state.Transactions = transactions
	return nil
}

func (a *App) fetchViews(ctx context.Context) error {
	views, err := a.api.ListViews(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("Error fetching views")
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Views = views
	return nil
}
