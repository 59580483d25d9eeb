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

type CreateDeviceInput struct {
	DeviceID  string `json:"deviceId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	GatewayID string `json:"gatewayId"`
	State     string `json:"state,omitempty"`
}

type DeviceFilter struct {
	GatewayID string
	Page      int
	Limit     int
}

type DeviceService struct {
	devices  DeviceStore
	gateways GatewayStore
	now      func() time.Time
}

func NewDeviceService(devices DeviceStore, gateways GatewayStore) *DeviceService {
	return &DeviceService{devices: devices, gateways: gateways, now: defaultNow}
}

func (s *DeviceService) Create(ctx context.Context, in CreateDeviceInput) (*models.Device, error) {
	deviceID := strings.TrimSpace(in.DeviceID)
	name := strings.TrimSpace(in.Name)
	gatewayID := strings.TrimSpace(in.GatewayID)
	switch {
	case deviceID == "":
		return nil, validationError("deviceId is required")
	case name == "":
		return nil, validationError("name is required")
	case gatewayID == "":
		return nil, validationError("gatewayId is required")
	case !models.IsValidDeviceType(in.Type):
		return nil, validationError("type must be one of: %s", oneOf(models.ValidDeviceTypes))
	}
	state, err := parseState(in.State)
	if err != nil {
		return nil, err
	}

	gateway, err := resolveGateway(ctx, s.gateways, gatewayID)
	if err != nil {
		return nil, err
	}
	taken, err := s.devices.IsDeviceIDTaken(ctx, gateway.ID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	if taken {
		return nil, duplicate("Device ID already taken on this gateway")
	}

	now := s.now()
	device := &models.Device{
		ID:        primitive.NewObjectID(),
		DeviceID:  deviceID,
		Name:      name,
		Type:      models.DeviceType(in.Type),
		Gateway:   gateway.ID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.devices.Insert(ctx, device); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicate("Device ID already taken on this gateway")
		}
		return nil, fmt.Errorf("create device: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues(constants.KindDevice).Inc()
	utils.LoggerFromContext(ctx).Info("device created",
		zap.String("id", device.ID.Hex()),
		zap.String("deviceId", deviceID),
		zap.String("gatewayId", gatewayID),
	)
	return device, nil
}

func (s *DeviceService) Get(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	device, err := s.devices.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.DeviceEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	return device, nil
}

func (s *DeviceService) List(ctx context.Context, f DeviceFilter) (*models.Page[models.Device], error) {
	req, err := pageRequest(f.Page, f.Limit)
	if err != nil {
		return nil, err
	}
	q := repository.DeviceQuery{PageRequest: req}
	if key := strings.TrimSpace(f.GatewayID); key != "" {
		gateway, err := resolveGateway(ctx, s.gateways, key)
		if err != nil {
			return nil, err
		}
		q.Gateway = gateway.ID
	}

	page, err := s.devices.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return page, nil
}

func (s *DeviceService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.devices.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(models.DeviceEntity + " not found")
	}
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("device deleted", zap.String("id", id.Hex()))
	return nil
}
