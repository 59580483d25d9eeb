package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/embedded-iot/unified-be/internal/handlers"
	"github.com/embedded-iot/unified-be/internal/middleware"
	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/services"
	"github.com/embedded-iot/unified-be/internal/utils"
)

const testUserID = "6047a1f2c3b4d5e6f7a8b9c0"

func bearer(t *testing.T) string {
	t.Helper()
	utils.InitJwtSecret("handler-secret", time.Minute)
	token, err := utils.GenerateJWT(testUserID)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func newRouter(register func(r *mux.Router, auth handlers.Middleware)) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	register(r, middleware.JWTAuthMiddleware)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var body utils.ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

type stubActivityLogs struct {
	create    func(services.CreateActivityLogInput) (*models.ActivityLog, error)
	get       func(primitive.ObjectID) (*models.ActivityLog, error)
	list      func(services.RecordFilter) (*models.Page[models.ActivityLog], error)
	update    func(primitive.ObjectID, services.ActivityLogPatch) (*models.ActivityLog, error)
	delete    func(primitive.ObjectID) error
	getLatest func(string) (*models.ActivityLog, error)
}

func (s *stubActivityLogs) Create(_ context.Context, in services.CreateActivityLogInput) (*models.ActivityLog, error) {
	return s.create(in)
}

func (s *stubActivityLogs) Get(_ context.Context, id primitive.ObjectID) (*models.ActivityLog, error) {
	return s.get(id)
}

func (s *stubActivityLogs) List(_ context.Context, f services.RecordFilter) (*models.Page[models.ActivityLog], error) {
	return s.list(f)
}

func (s *stubActivityLogs) Update(_ context.Context, id primitive.ObjectID, p services.ActivityLogPatch) (*models.ActivityLog, error) {
	return s.update(id, p)
}

func (s *stubActivityLogs) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.delete(id)
}

func (s *stubActivityLogs) GetLatest(_ context.Context, masterKey string) (*models.ActivityLog, error) {
	return s.getLatest(masterKey)
}

type stubFaults struct {
	create    func(services.CreateFaultInput) (*models.Fault, error)
	list      func(services.RecordFilter) (*models.Page[models.Fault], error)
	getLatest func(string) (*models.Fault, error)
}

func (s *stubFaults) Create(_ context.Context, in services.CreateFaultInput) (*models.Fault, error) {
	return s.create(in)
}

func (s *stubFaults) Get(context.Context, primitive.ObjectID) (*models.Fault, error) {
	return nil, &services.Error{Kind: services.ErrNotFound, Message: "Fault not found"}
}

func (s *stubFaults) List(_ context.Context, f services.RecordFilter) (*models.Page[models.Fault], error) {
	return s.list(f)
}

func (s *stubFaults) Update(context.Context, primitive.ObjectID, services.FaultPatch) (*models.Fault, error) {
	return nil, &services.Error{Kind: services.ErrValidation, Message: "At least one field must be provided"}
}

func (s *stubFaults) Delete(context.Context, primitive.ObjectID) error { return nil }

func (s *stubFaults) GetLatest(_ context.Context, gatewayID string) (*models.Fault, error) {
	return s.getLatest(gatewayID)
}

type stubMasters struct {
	lastUser primitive.ObjectID
	err      error
}

func (s *stubMasters) Create(_ context.Context, user primitive.ObjectID, in services.CreateMasterInput) (*models.Master, error) {
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	return &models.Master{ID: primitive.NewObjectID(), MasterKey: in.MasterKey, Name: in.Name, User: user}, nil
}

func (s *stubMasters) Get(_ context.Context, id primitive.ObjectID) (*models.Master, error) {
	return &models.Master{ID: id, MasterKey: "plant-a"}, s.err
}

func (s *stubMasters) List(_ context.Context, user primitive.ObjectID, page, limit int) (*models.Page[models.Master], error) {
	s.lastUser = user
	return models.NewPage[models.Master](nil, page, limit, 0), s.err
}

func (s *stubMasters) Update(_ context.Context, user, id primitive.ObjectID, _ services.MasterPatch) (*models.Master, error) {
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	return &models.Master{ID: id}, nil
}

func (s *stubMasters) Delete(_ context.Context, user, _ primitive.ObjectID) error {
	s.lastUser = user
	return s.err
}
