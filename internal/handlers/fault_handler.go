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

type FaultService interface {
	Create(ctx context.Context, in services.CreateFaultInput) (*models.Fault, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Fault, error)
	List(ctx context.Context, f services.RecordFilter) (*models.Page[models.Fault], error)
	Update(ctx context.Context, id primitive.ObjectID, patch services.FaultPatch) (*models.Fault, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetLatest(ctx context.Context, gatewayID string) (*models.Fault, error)
}

type FaultHandler struct {
	Service FaultService
}

func NewFaultHandler(svc FaultService) *FaultHandler {
	return &FaultHandler{Service: svc}
}

func (h *FaultHandler) Register(r *mux.Router, auth Middleware) {
	r.HandleFunc("/faults", h.Create).Methods(http.MethodPost)
	r.Handle("/faults", protect(auth, h.List)).Methods(http.MethodGet)
	r.Handle("/faults/latest", protect(auth, h.GetLatest)).Methods(http.MethodGet)
	r.Handle("/faults/{id}", protect(auth, h.Get)).Methods(http.MethodGet)
	r.Handle("/faults/{id}", protect(auth, h.Update)).Methods(http.MethodPatch)
	r.Handle("/faults/{id}", protect(auth, h.Delete)).Methods(http.MethodDelete)
}

// POST /faults
func (h *FaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateFaultInput
	if err := decodeJSON(r, &in); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if in.GatewayID == "" || in.DeviceID == "" || in.Category == "" || in.Type == "" || in.Event == "" || in.Position == nil {
		utils.JSONError(w, "gatewayId, deviceId, category, type, event and position are required", http.StatusBadRequest)
		return
	}

	fault, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, fault)
}

// GET /faults?gatewayId=&from=&to=&page=&limit=
func (h *FaultHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r, "gatewayId")
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

// GET /faults/latest?gatewayId=
func (h *FaultHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	fault, err := h.Service.GetLatest(r.Context(), r.URL.Query().Get("gatewayId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fault)
}

// GET /faults/{id}
func (h *FaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid fault ID", http.StatusBadRequest)
		return
	}

	fault, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fault)
}

// PATCH /faults/{id}
func (h *FaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid fault ID", http.StatusBadRequest)
		return
	}
	var patch services.FaultPatch
	if err := decodeJSON(r, &patch); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	fault, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fault)
}

// DELETE /faults/{id}
func (h *FaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid fault ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
