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

type GatewayService interface {
	Create(ctx context.Context, in services.CreateGatewayInput) (*models.Gateway, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Gateway, error)
	List(ctx context.Context, f services.GatewayFilter) (*models.Page[models.Gateway], error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GatewayHandler struct {
	Service GatewayService
}

func NewGatewayHandler(svc GatewayService) *GatewayHandler {
	return &GatewayHandler{Service: svc}
}

func (h *GatewayHandler) Register(r *mux.Router, auth Middleware) {
	r.Handle("/gateways", protect(auth, h.Create)).Methods(http.MethodPost)
	r.Handle("/gateways", protect(auth, h.List)).Methods(http.MethodGet)
	r.Handle("/gateways/{id}", protect(auth, h.Get)).Methods(http.MethodGet)
	r.Handle("/gateways/{id}", protect(auth, h.Delete)).Methods(http.MethodDelete)
}

// POST /gateways
func (h *GatewayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateGatewayInput
	if err := decodeJSON(r, &in); err != nil {
		utils.JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if in.GatewayID == "" || in.Name == "" || in.MasterKey == "" {
		utils.JSONError(w, "gatewayId, name and masterKey are required", http.StatusBadRequest)
		return
	}

	gateway, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, gateway)
}

// GET /gateways?masterKey=&page=&limit=
func (h *GatewayHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.List(r.Context(), services.GatewayFilter{
		MasterKey: r.URL.Query().Get("masterKey"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GET /gateways/{id}
func (h *GatewayHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid gateway ID", http.StatusBadRequest)
		return
	}

	gateway, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, gateway)
}

// DELETE /gateways/{id}
func (h *GatewayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.JSONError(w, "Invalid gateway ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
