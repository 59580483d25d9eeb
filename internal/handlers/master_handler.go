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

type MasterService interface {
	Create(ctx context.Context, user primitive.ObjectID, in services.CreateMasterInput) (*models.Master, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Master, error)
	List(ctx context.Context, user primitive.ObjectID, page, limit int) (*models.Page[models.Master], error)
	Update(ctx context.Context, user, id primitive.ObjectID, patch services.MasterPatch) (*models.Master, error)
	Delete(ctx context.Context, user, id primitive.ObjectID) error
}

type MasterHandler struct {
	Service MasterService
}

func NewMasterHandler(svc MasterService) *MasterHandler {
	return &MasterHandler{Service: svc}
}

func (h *MasterHandler) Register(r *mux.Router, auth Middleware) {
	r.Handle("/masters", protect(auth, h.Create)).Methods(http.MethodPost)
	r.Handle("/masters", protect(auth, h.List)).Methods(http.MethodGet)
	r.Handle("/masters/{id}", protect(auth, h.Get)).Methods(http.MethodGet)
	r.Handle("/masters/{id}", protect(auth, h.Update)).Methods(http.MethodPatch)
	r.Handle("/masters/{id}", protect(auth, h.Delete)).Methods(http.MethodDelete)
}

// POST /masters
func (h *MasterHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := callerID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var in services.CreateMasterInput
	if err := decodeJSON(r, &in); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if in.MasterKey == "" || in.Name == "" {
		utils.JSONError(w, "masterKey and name are required", http.StatusBadRequest)
		return
	}

	master, err := h.Service.Create(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, master)
}

// GET /masters?page=&limit=
func (h *MasterHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := callerID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.List(r.Context(), user, page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GET /masters/{id}
func (h *MasterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid master ID", http.StatusBadRequest)
		return
	}

	master, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, master)
}

// PATCH /masters/{id}
func (h *MasterHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := callerID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid master ID", http.StatusBadRequest)
		return
	}
	var patch services.MasterPatch
	if err := decodeJSON(r, &patch); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	master, err := h.Service.Update(r.Context(), user, id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, master)
}

// DELETE /masters/{id}
func (h *MasterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := callerID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid master ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
