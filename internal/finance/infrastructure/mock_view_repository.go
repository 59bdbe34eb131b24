package infrastructure

import (
	"context"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"sort"
	"sync"
)

// MockViewRepository is an in-memory view store enforcing the unique
// view_name constraint.
type MockViewRepository struct {
	mu     sync.Mutex
	Views  []domain.View
	nextID int64
	// Err, when set, is returned by every call.
	Err error
	// CreateErr, when set, is returned by Create only.
	CreateErr error
}

func (m *MockViewRepository) FindAll(_ context.Context) ([]domain.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	views := append([]domain.View{}, m.Views...)
	sort.Slice(views, func(i, j int) bool { return views[i].ViewName < views[j].ViewName })
	return views, nil
}

func (m *MockViewRepository) FindByName(_ context.Context, viewName string) (*domain.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, view := range m.Views {
		if view.ViewName == viewName {
			return &view, nil
		}
	}
	return nil, financeErrors.ErrViewNotFound
}

func (m *MockViewRepository) Create(_ context.Context, viewName string, filters domain.ViewFilters) (*domain.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	for _, view := range m.Views {
		if view.ViewName == viewName {
			return nil, financeErrors.ErrViewNameTaken
		}
		if view.ID > m.nextID {
			m.nextID = view.ID
		}
	}
	m.nextID++
	view := domain.View{ID: m.nextID, ViewName: viewName, ViewFilters: filters}
	m.Views = append(m.Views, view)
	return &view, nil
}

func (m *MockViewRepository) UpdateByName(_ context.Context, viewName string, filters domain.ViewFilters) (*domain.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i := range m.Views {
		if m.Views[i].ViewName == viewName {
			m.Views[i].ViewFilters = filters
			view := m.Views[i]
			return &view, nil
		}
	}
	return nil, financeErrors.ErrViewNotFound
}

func (m *MockViewRepository) Delete(_ context.Context, viewID int64) (*domain.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i, view := range m.Views {
		if view.ID == viewID {
			m.Views = append(m.Views[:i], m.Views[i+1:]...)
			return &view, nil
		}
	}
	return nil, financeErrors.ErrViewNotFound
}
