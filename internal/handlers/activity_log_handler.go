package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/services"
	"github.com/embedded-iot/unified-be/internal/utils"
)

type ActivityLogService interface {
	Create(ctx context.Context, in services.CreateActivityLogInput) (*models.ActivityLog, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.ActivityLog, error)
	List(ctx context.Context, f services.RecordFilter) (*models.Page[models.ActivityLog], error)
	Update(ctx context.Context, id primitive.ObjectID, patch services.ActivityLogPatch) (*models.ActivityLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetLatest(ctx context.Context, masterKey string) (*models.ActivityLog, error)
}

type ActivityLogHandler struct {
	Service ActivityLogService
}

func NewActivityLogHandler(svc ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{Service: svc}
}

// Register mounts the routes. Creation stays public so gateways can post without a token.
func (h *ActivityLogHandler) Register(r *mux.Router, auth Middleware) {
	r.HandleFunc("/activityLogs", h.Create).Methods(http.MethodPost)
	r.Handle("/activityLogs", protect(auth, h.List)).Methods(http.MethodGet)
	r.Handle("/activityLogs/latest", protect(auth, h.GetLatest)).Methods(http.MethodGet)
	r.Handle("/activityLogs/{id}", protect(auth, h.Get)).Methods(http.MethodGet)
	r.Handle("/activityLogs/{id}", protect(auth, h.Update)).Methods(http.MethodPatch)
	r.Handle("/activityLogs/{id}", protect(auth, h.Delete)).Methods(http.MethodDelete)
}

// POST /activityLogs
func (h *ActivityLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateActivityLogInput
	if err := decodeJSON(r, &in); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if in.MasterKey == "" || in.Category == "" || in.Type == "" {
		utils.JSONError(w, "masterKey, category and type are required", http.StatusBadRequest)
		return
	}

	log, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, log)
}

// GET /activityLogs?masterKey=&from=&to=&page=&limit=
func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r, "masterKey")
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GET /activityLogs/latest?masterKey=
func (h *ActivityLogHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	log, err := h.Service.GetLatest(r.Context(), r.URL.Query().Get("masterKey"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, log)
}

// GET /activityLogs/{id}
func (h *ActivityLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid activity log ID", http.StatusBadRequest)
		return
	}

	log, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, log)
}

// PATCH /activityLogs/{id}
func (h *ActivityLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid activity log ID", http.StatusBadRequest)
		return
	}
	var patch services.ActivityLogPatch
	if err := decodeJSON(r, &patch); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, log)
}

// DELETE /activityLogs/{id}
func (h *ActivityLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid activity log ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recordFilter(r *http.Request, ownerParam string) (services.RecordFilter, error) {
	page, limit, err := pageParams(r)
	if err != nil {
		return services.RecordFilter{}, err
	}
	q := r.URL.Query()
	return services.RecordFilter{
		OwnerKey: q.Get(ownerParam),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Page:     page,
		Limit:    limit,
	}, nil
}
