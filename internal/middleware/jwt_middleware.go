package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/utils"
)

type contextKey string

const ContextUserID contextKey = "user_id"

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			utils.LoggerFromContext(r.Context()).Debug("rejected token", zap.Error(err))
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		if !primitive.IsValidObjectID(claims.UserID) {
			utils.LoggerFromContext(r.Context()).Debug("rejected token subject", zap.String("user_id", claims.UserID))
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user id set by JWTAuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextUserID).(string)
	return userID, ok && userID != ""
}
