package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/metrics"
	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/repository"
	"github.com/embedded-iot/unified-be/internal/utils"
)

type CreateFaultInput struct {
	GatewayID   string                 `json:"gatewayId"`
	DeviceID    string                 `json:"deviceId"`
	Category    string                 `json:"category"`
	Type        string                 `json:"type"`
	Event       string                 `json:"event"`
	Position    *float64               `json:"position"`
	Description string                 `json:"description,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
	Suggest     string                 `json:"suggest,omitempty"`
	FaultData   map[string]interface{} `json:"faultData,omitempty"`
}

type FaultPatch struct {
	GatewayID   *string                `json:"gatewayId,omitempty"`
	DeviceID    *string                `json:"deviceId,omitempty"`
	Category    *string                `json:"category,omitempty"`
	Type        *string                `json:"type,omitempty"`
	Event       *string                `json:"event,omitempty"`
	Position    *float64               `json:"position,omitempty"`
	Description *string                `json:"description,omitempty"`
	Reason      *string                `json:"reason,omitempty"`
	Suggest     *string                `json:"suggest,omitempty"`
	FaultData   map[string]interface{} `json:"faultData,omitempty"`
}

func (p FaultPatch) IsEmpty() bool {
	return p.GatewayID == nil && p.DeviceID == nil && p.Category == nil && p.Type == nil &&
		p.Event == nil && p.Position == nil && p.Description == nil && p.Reason == nil &&
		p.Suggest == nil && p.FaultData == nil
}

type FaultService struct {
	faults   FaultStore
	gateways GatewayStore
	devices  DeviceStore
	now      func() time.Time
}

func NewFaultService(faults FaultStore, gateways GatewayStore, devices DeviceStore) *FaultService {
	return &FaultService{faults: faults, gateways: gateways, devices: devices, now: defaultNow}
}

func (s *FaultService) Create(ctx context.Context, in CreateFaultInput) (*models.Fault, error) {
	gatewayID := strings.TrimSpace(in.GatewayID)
	deviceID := strings.TrimSpace(in.DeviceID)
	switch {
	case gatewayID == "":
		return nil, validationError("gatewayId is required")
	case deviceID == "":
		return nil, validationError("deviceId is required")
	case strings.TrimSpace(in.Event) == "":
		return nil, validationError("event is required")
	case in.Position == nil:
		return nil, validationError("position is required")
	}
	if err := validateFaultEnums(&in.Category, &in.Type); err != nil {
		return nil, err
	}

	gateway, err := resolveGateway(ctx, s.gateways, gatewayID)
	if err != nil {
		return nil, err
	}
	device, err := resolveDevice(ctx, s.devices, gateway.ID, deviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fault := &models.Fault{
		ID:          primitive.NewObjectID(),
		Gateway:     gateway.ID,
		Device:      device.ID,
		Category:    models.FaultCategory(in.Category),
		Type:        models.EventType(in.Type),
		Event:       strings.TrimSpace(in.Event),
		Position:    *in.Position,
		Description: in.Description,
		Reason:      in.Reason,
		Suggest:     in.Suggest,
		FaultData:   in.FaultData,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.faults.Insert(ctx, fault); err != nil {
		return nil, fmt.Errorf("create fault: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues(constants.KindFault).Inc()
	utils.LoggerFromContext(ctx).Info("fault created",
		zap.String("id", fault.ID.Hex()),
		zap.String("gatewayId", gatewayID),
		zap.String("deviceId", deviceID),
		zap.String("category", in.Category),
	)
	return fault, nil
}

func (s *FaultService) Get(ctx context.Context, id primitive.ObjectID) (*models.Fault, error) {
	fault, err := s.faults.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.FaultEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get fault: %w", err)
	}
	return fault, nil
}

func (s *FaultService) List(ctx context.Context, f RecordFilter) (*models.Page[models.Fault], error) {
	q, err := f.query(primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(f.OwnerKey); key != "" {
		gateway, err := resolveGateway(ctx, s.gateways, key)
		if err != nil {
			return nil, err
		}
		q.OwnerID = gateway.ID
	}

	page, err := s.faults.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list faults: %w", err)
	}
	return page, nil
}

// Update applies patch. A new deviceId is looked up under the new gateway when one is
// given, otherwise under the fault's current gateway.
func (s *FaultService) Update(ctx context.Context, id primitive.ObjectID, patch FaultPatch) (*models.Fault, error) {
	if patch.IsEmpty() {
		return nil, validationError("At least one field must be provided")
	}
	if err := validateFaultEnums(patch.Category, patch.Type); err != nil {
		return nil, err
	}
	if patch.GatewayID != nil && patch.DeviceID == nil {
		return nil, validationError("deviceId is required when gatewayId changes")
	}
	if patch.Event != nil && strings.TrimSpace(*patch.Event) == "" {
		return nil, validationError("event must not be empty")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.FaultUpdate{
		Position:    patch.Position,
		Description: patch.Description,
		Reason:      patch.Reason,
		Suggest:     patch.Suggest,
		FaultData:   patch.FaultData,
	}
	gatewayRef := current.Gateway
	if patch.GatewayID != nil {
		gateway, err := resolveGateway(ctx, s.gateways, strings.TrimSpace(*patch.GatewayID))
		if err != nil {
			return nil, err
		}
		gatewayRef = gateway.ID
		update.Gateway = &gateway.ID
	}
	if patch.DeviceID != nil {
		device, err := resolveDevice(ctx, s.devices, gatewayRef, strings.TrimSpace(*patch.DeviceID))
		if err != nil {
			return nil, err
		}
		update.Device = &device.ID
	}
	if patch.Category != nil {
		category := models.FaultCategory(*patch.Category)
		update.Category = &category
	}
	if patch.Type != nil {
		eventType := models.EventType(*patch.Type)
		update.Type = &eventType
	}
	if patch.Event != nil {
		event := strings.TrimSpace(*patch.Event)
		update.Event = &event
	}

	fault, err := s.faults.Update(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.FaultEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update fault: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("fault updated", zap.String("id", id.Hex()))
	return fault, nil
}

func (s *FaultService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.faults.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(models.FaultEntity + " not found")
	}
	if err != nil {
		return fmt.Errorf("delete fault: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("fault deleted", zap.String("id", id.Hex()))
	return nil
}

// GetLatest returns the newest fault of the gateway, or the newest overall when gatewayID is empty.
func (s *FaultService) GetLatest(ctx context.Context, gatewayID string) (*models.Fault, error) {
	owner := primitive.NilObjectID
	if key := strings.TrimSpace(gatewayID); key != "" {
		gateway, err := resolveGateway(ctx, s.gateways, key)
		if err != nil {
			return nil, err
		}
		owner = gateway.ID
	}

	fault, err := s.faults.Latest(ctx, owner)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("No fault found")
	}
	if err != nil {
		return nil, fmt.Errorf("latest fault: %w", err)
	}
	return fault, nil
}

func validateFaultEnums(category, eventType *string) error {
	if category != nil && !models.IsValidFaultCategory(*category) {
		return validationError("category must be one of: %s", oneOf(models.ValidFaultCategories))
	}
	if eventType != nil && !models.IsValidEventType(*eventType) {
		return validationError("type must be one of: %s", oneOf(models.ValidEventTypes))
	}
	return nil
}
