package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request with an id, echoed in the response, and a logger carrying it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		l := utils.GetLogger().With(zap.String("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), l)))
	})
}
