package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/TransactionTracker/internal/finance/application"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	"net/http"
)

const viewNotFoundMessage = "View not found"

type ViewServiceInterface interface {
	ListViews(ctx context.Context) ([]domain.View, error)
	SaveView(ctx context.Context, input application.ViewInput) (*domain.View, error)
	DeleteView(ctx context.Context, viewID int64) (*domain.View, error)
}

type ViewHandler struct {
	service      ViewServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewViewHandler(
	service ViewServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *ViewHandler {
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
	return &ViewHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// flexString accepts a JSON string, number or null. Browsers send dates as
// ISO timestamps and amounts as either numbers or strings.
type flexString struct {
	value *string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		f.value = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.value = &s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string, number or null, got %s", data)
	}
	s := n.String()
	f.value = &s
	return nil
}

type saveViewRequest struct {
	ViewName  string     `json:"view_name"`
	FromDate  flexString `json:"from_date_txn_date"`
	ToDate    flexString `json:"to_date_txn_date"`
	Account   flexString `json:"account"`
	TxnType   flexString `json:"txn_type"`
	TxnAmount flexString `json:"txn_amount"`
	Category  flexString `json:"category"`
	Tags      flexString `json:"tags"`
	Notes     flexString `json:"notes"`
}

func (req saveViewRequest) toInput() application.ViewInput {
	return application.ViewInput{
		ViewName:  req.ViewName,
		FromDate:  req.FromDate.value,
		ToDate:    req.ToDate.value,
		Account:   req.Account.value,
		TxnType:   req.TxnType.value,
		TxnAmount: req.TxnAmount.value,
		Category:  req.Category.value,
		Tags:      req.Tags.value,
		Notes:     req.Notes.value,
	}
}

func (h *ViewHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListViews(r.Context())
	if err != nil {
		respondServiceError(w, r, h.respondError, err, viewNotFoundMessage)
		return
	}
	if views == nil {
		views = []domain.View{}
	}

	h.respondJSON(w, http.StatusOK, views)
}

// SaveView creates the view or overwrites the one with the same name.
func (h *ViewHandler) SaveView(w http.ResponseWriter, r *http.Request) {
	var req saveViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.SaveView(r.Context(), req.toInput())
	if err != nil {
		respondServiceError(w, r, h.respondError, err, viewNotFoundMessage)
		return
	}

	h.respondJSON(w, http.StatusCreated, view)
}

func (h *ViewHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	viewID, ok := idFromContext(r.Context(), idParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, viewNotFoundMessage)
		return
	}

	if _, err := h.service.DeleteView(r.Context(), viewID); err != nil {
		respondServiceError(w, r, h.respondError, err, viewNotFoundMessage)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "View deleted successfully",
	})
}

func (h *ViewHandler) ValidateViewIDMiddleware(next http.Handler) http.Handler {
	return validateIDPathParam(next, idParam, viewNotFoundMessage, h.respondError)
}
