package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/sebuszqo/TransactionTracker/internal/logger"
	"github.com/shopspring/decimal"
	"net/http"
)

const (
	transactionNotFoundMessage = "Transaction not found"
	internalErrorMessage       = "Internal server error"
)

type TransactionServiceInterface interface {
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID int64, transaction domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *TransactionHandler {
	if service == nil {
		log.Fatal().Msg("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal().Msg("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal().Msg("RespondError function must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// transactionRequest is the body of create and update calls. The amount is a
// pointer so a missing amount can be told apart from zero.
type transactionRequest struct {
	TxnDate   string           `json:"txn_date"`
	Account   string           `json:"account"`
	TxnType   domain.TxnType   `json:"txn_type"`
	TxnAmount *decimal.Decimal `json:"txn_amount"`
	Category  string           `json:"category"`
	Tags      string           `json:"tags"`
	Notes     string           `json:"notes"`
}

func (req transactionRequest) toTransaction() (domain.Transaction, error) {
	transaction := domain.Transaction{
		Account:  req.Account,
		TxnType:  req.TxnType,
		Category: req.Category,
		Tags:     req.Tags,
		Notes:    req.Notes,
	}
	validationErrors := &financeErrors.ValidationErrors{}

	if req.TxnDate != "" {
		txnDate, err := domain.ParseDate(req.TxnDate)
		if err != nil {
			validationErrors.Add(financeErrors.NewFieldValidationError("txn_date", "must be a date in YYYY-MM-DD format"))
		}
		transaction.TxnDate = txnDate
	}
	if req.TxnAmount == nil {
		validationErrors.Add(financeErrors.NewFieldValidationError("txn_amount", "is required"))
	} else {
		transaction.TxnAmount = *req.TxnAmount
	}

	return transaction, validationErrors.ErrOrNil()
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseTransactionFilter(r.URL.Query())
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	h.respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := req.toTransaction()
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	created, err := h.service.CreateTransaction(r.Context(), transaction)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	h.respondJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := idFromContext(r.Context(), idParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, transactionNotFoundMessage)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := req.toTransaction()
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	updated, err := h.service.UpdateTransaction(r.Context(), transactionID, transaction)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := idFromContext(r.Context(), idParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, transactionNotFoundMessage)
		return
	}

	if _, err := h.service.DeleteTransaction(r.Context(), transactionID); err != nil {
		respondServiceError(w, r, h.respondError, err, transactionNotFoundMessage)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Transaction deleted successfully",
	})
}

func (h *TransactionHandler) ValidateTransactionIDMiddleware(next http.Handler) http.Handler {
	return validateIDPathParam(next, idParam, transactionNotFoundMessage, h.respondError)
}

// respondServiceError maps err to a status code. Validation problems are the
// client's fault (400), missing rows are 404 and anything else is logged and
// hidden behind a generic 500.
func respondServiceError(
	w http.ResponseWriter,
	r *http.Request,
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	err error,
	notFoundMessage string,
) {
	switch {
	case financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error(), financeErrors.ValidationMessages(err))
	case errors.Is(err, financeErrors.ErrTransactionNotFound), errors.Is(err, financeErrors.ErrViewNotFound):
		respondError(w, http.StatusNotFound, notFoundMessage)
	default:
		requestLog := logger.FromContext(r.Context())
		requestLog.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}
