package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/middleware"
	"github.com/embedded-iot/unified-be/internal/services"
	"github.com/embedded-iot/unified-be/internal/utils"
)

// Middleware wraps a single route, e.g. middleware.JWTAuthMiddleware.
type Middleware func(http.Handler) http.Handler

func protect(auth Middleware, h http.HandlerFunc) http.Handler {
	if auth == nil {
		return h
	}
	return auth(h)
}

// decodeJSON rejects unknown fields, wrong types and trailing data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

// queryInt reads a positive integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q must be a positive integer", name)
	}
	return n, nil
}

func pageParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if limit > constants.MaxLimit {
		return 0, 0, fmt.Errorf(`"limit" must be at most %d`, constants.MaxLimit)
	}
	return page, limit, nil
}

func callerID(r *http.Request) (primitive.ObjectID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(userID)
	return id, err == nil
}

// writeServiceError maps service failures to status codes; anything unclassified is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		utils.JSONError(w, svcErr.Message, statusFor(svcErr.Kind))
		return
	}

	utils.LoggerFromContext(r.Context()).Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
}

func statusFor(kind error) int {
	switch kind {
	case services.ErrValidation, services.ErrDuplicate:
		return http.StatusBadRequest
	case services.ErrNotFound:
		return http.StatusNotFound
	case services.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
