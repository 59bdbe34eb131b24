package client

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestListTransactions_SendsFilters(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"id":1,"txn_date":"2024-01-05","account":"Cash","txn_type":"Debit","txn_amount":"250.00","category":"Groceries","tags":"food,weekly","notes":"supermarket"}]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/api/")
	transactions, err := c.ListTransactions(context.Background(), url.Values{"tags": {"food"}, "account": {"Cash"}})
	require.NoError(t, err)

	assert.Equal(t, "food", gotQuery.Get("tags"))
	assert.Equal(t, "Cash", gotQuery.Get("account"))
	require.Len(t, transactions, 1)
	assert.Equal(t, domain.NewDate(2024, time.January, 5), transactions[0].TxnDate)
	assert.True(t, decimal.RequireFromString("250").Equal(transactions[0].TxnAmount))
}

func TestCreateTransaction_PostsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-01-05", body["txn_date"])
		assert.Equal(t, "Debit", body["txn_type"])

		body["id"] = 7
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(body)
	}))
	defer ts.Close()

	created, err := NewClient(ts.URL).CreateTransaction(context.Background(), domain.Transaction{
		TxnDate:   domain.NewDate(2024, time.January, 5),
		Account:   "Cash",
		TxnType:   domain.TxnTypeDebit,
		TxnAmount: decimal.RequireFromString("250.00"),
		Category:  "Groceries",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/5", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Transaction not found"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL).DeleteTransaction(context.Background(), 5)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Transaction not found", apiErr.Message)
}

func TestSaveView_ValidationError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body SaveViewRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "", body.ViewName)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"view_name is required","errors":["view_name is required"]}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).SaveView(context.Background(), SaveViewRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"view_name is required"}, apiErr.Errors)
	assert.False(t, apiErr.IsNotFound())
}

func TestListViews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"view_name":"Groceries Q1","from_date_txn_date":"2024-01-01","to_date_txn_date":null,"account":null,"txn_type":null,"txn_amount":"12.50","category":"Groceries","tags":null,"notes":null}]`))
	}))
	defer ts.Close()

	views, err := NewClient(ts.URL).ListViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Groceries Q1", views[0].ViewName)
	assert.Equal(t, "2024-01-01", views[0].FromDate.String())
	assert.Nil(t, views[0].ToDate)
	assert.Equal(t, "12.50", views[0].TxnAmount.StringFixed(2))
}

func TestAPIError_NonJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := NewClient(ts.URL).DeleteView(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "502 Bad Gateway", apiErr.Message)
}
