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

type DeviceService interface {
	Create(ctx context.Context, in services.CreateDeviceInput) (*models.Device, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Device, error)
	List(ctx context.Context, f services.DeviceFilter) (*models.Page[models.Device], error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DeviceHandler struct {
	Service DeviceService
}

func NewDeviceHandler(svc DeviceService) *DeviceHandler {
	return &DeviceHandler{Service: svc}
}

func (h *DeviceHandler) Register(r *mux.Router, auth Middleware) {
	r.Handle("/devices", protect(auth, h.Create)).Methods(http.MethodPost)
	r.Handle("/devices", protect(auth, h.List)).Methods(http.MethodGet)
	r.Handle("/devices/{id}", protect(auth, h.Get)).Methods(http.MethodGet)
	r.Handle("/devices/{id}", protect(auth, h.Delete)).Methods(http.MethodDelete)
}

// POST /devices
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateDeviceInput
	if err := decodeJSON(r, &in); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if in.DeviceID == "" || in.Name == "" || in.Type == "" || in.GatewayID == "" {
		utils.JSONError(w, "deviceId, name, type and gatewayId are required", http.StatusBadRequest)
		return
	}

	device, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, device)
}

// GET /devices?gatewayId=&page=&limit=
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.List(r.Context(), services.DeviceFilter{
		GatewayID: r.URL.Query().Get("gatewayId"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GET /devices/{id}
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid device ID", http.StatusBadRequest)
		return
	}

	device, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, device)
}

// DELETE /devices/{id}
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid device ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
