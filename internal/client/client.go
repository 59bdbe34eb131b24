package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "http://localhost:3001/api"

// APIError is a non-2xx answer of the tracker API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// SaveViewRequest carries the filter form as typed by the user. Blank fields
// are stored as NULL by the server.
type SaveViewRequest struct {
	ViewName  string `json:"view_name"`
	FromDate  string `json:"from_date_txn_date"`
	ToDate    string `json:"to_date_txn_date"`
	Account   string `json:"account"`
	TxnType   string `json:"txn_type"`
	TxnAmount string `json:"txn_amount"`
	Category  string `json:"category"`
	Tags      string `json:"tags"`
	Notes     string `json:"notes"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListTransactions(ctx context.Context, query url.Values) ([]domain.Transaction, error) {
	path := "/transactions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var transactions []domain.Transaction
	if err := c.do(ctx, http.MethodGet, path, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (c *Client) CreateTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	var created domain.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", transaction, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, transactionID int64, transaction domain.Transaction) (*domain.Transaction, error) {
	var updated domain.Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+strconv.FormatInt(transactionID, 10), transaction, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, transactionID int64) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+strconv.FormatInt(transactionID, 10), nil, nil)
}

func (c *Client) ListViews(ctx context.Context) ([]domain.View, error) {
	var views []domain.View
	if err := c.do(ctx, http.MethodGet, "/views", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) SaveView(ctx context.Context, req SaveViewRequest) (*domain.View, error) {
	var view domain.View
	if err := c.do(ctx, http.MethodPost, "/views", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) DeleteView(ctx context.Context, viewID int64) error {
	return c.do(ctx, http.MethodDelete, "/views/"+strconv.FormatInt(viewID, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var body struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Errors = body.Errors
	}
	return apiErr
}
