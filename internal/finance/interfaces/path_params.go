package interfaces

import (
	"context"
	"github.com/sebuszqo/TransactionTracker/internal/logger"
	"net/http"
	"strconv"
)

type pathParamKey string

const idParam = "id"

// validateIDPathParam parses the numeric path value param and stores it in
// the request context. Anything that is not a positive integer cannot name a
// stored row, so it is answered with the entity's not-found message.
func validateIDPathParam(
	next http.Handler,
	param string,
	notFoundMessage string,
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paramValue := r.PathValue(param)
		id, err := strconv.ParseInt(paramValue, 10, 64)
		if err != nil || id <= 0 {
			log := logger.FromContext(r.Context())
			log.Debug().Str("param", param).Str("value", paramValue).Msg("invalid id path parameter")
			respondError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		ctx := context.WithValue(r.Context(), pathParamKey(param), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func idFromContext(ctx context.Context, param string) (int64, bool) {
	id, ok := ctx.Value(pathParamKey(param)).(int64)
	return id, ok
}
