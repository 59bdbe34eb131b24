package server

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/TransactionTracker/internal/finance/interfaces"
	"github.com/sebuszqo/TransactionTracker/internal/logger"
	"net/http"
)

// HealthChecker reports the state of the database connection.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	transactionHandler *interfaces.TransactionHandler
	viewHandler        *interfaces.ViewHandler
	health             HealthChecker
	log                zerolog.Logger
	corsAllowedOrigin  string
}

func NewServer(
	transactionHandler *interfaces.TransactionHandler,
	viewHandler *interfaces.ViewHandler,
	health HealthChecker,
	log zerolog.Logger,
	corsAllowedOrigin string,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		transactionHandler: transactionHandler,
		viewHandler:        viewHandler,
		health:             health,
		log:                log,
		corsAllowedOrigin:  corsAllowedOrigin,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusNotFound, Response{Error: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		log := logger.FromContext(r.Context())
		log.Warn().Str("error", stats["error"]).Msg("health check failed")
		RespondJSON(w, http.StatusServiceUnavailable, stats)
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}

func (s *Server) RegisterRoutes() {
	apiRoutes := http.NewServeMux()

	// TRANSACTIONS
	apiRoutes.Handle("GET /api/transactions", http.HandlerFunc(s.transactionHandler.ListTransactions))
	apiRoutes.Handle("POST /api/transactions", http.HandlerFunc(s.transactionHandler.CreateTransaction))
	apiRoutes.Handle("PUT /api/transactions/{id}",
		s.transactionHandler.ValidateTransactionIDMiddleware(http.HandlerFunc(s.transactionHandler.UpdateTransaction)))
	apiRoutes.Handle("DELETE /api/transactions/{id}",
		s.transactionHandler.ValidateTransactionIDMiddleware(http.HandlerFunc(s.transactionHandler.DeleteTransaction)))

	// VIEWS
	apiRoutes.Handle("GET /api/views", http.HandlerFunc(s.viewHandler.ListViews))
	apiRoutes.Handle("POST /api/views", http.HandlerFunc(s.viewHandler.SaveView))
	apiRoutes.Handle("DELETE /api/views/{id}",
		s.viewHandler.ValidateViewIDMiddleware(http.HandlerFunc(s.viewHandler.DeleteView)))

	apiRoutes.Handle("GET /api/health", http.HandlerFunc(s.handleHealth))
	apiRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	apiRoutes.Handle("/api/", http.HandlerFunc(notFoundHandler))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", apiRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

// Handler returns the router wrapped in the middleware chain, outermost first:
// request id, CORS, access log, panic recovery.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router
	handler = Recovery(handler)
	handler = Logger(handler)
	handler = CORS(s.corsAllowedOrigin)(handler)
	handler = RequestID(s.log)(handler)
	return handler
}
