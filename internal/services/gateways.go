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

type CreateGatewayInput struct {
	GatewayID   string `json:"gatewayId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MasterKey   string `json:"masterKey"`
	State       string `json:"state,omitempty"`
}

type GatewayFilter struct {
	MasterKey string
	Page      int
	Limit     int
}

type GatewayService struct {
	gateways GatewayStore
	masters  MasterStore
	now      func() time.Time
}

func NewGatewayService(gateways GatewayStore, masters MasterStore) *GatewayService {
	return &GatewayService{gateways: gateways, masters: masters, now: defaultNow}
}

func (s *GatewayService) Create(ctx context.Context, in CreateGatewayInput) (*models.Gateway, error) {
	gatewayID := strings.TrimSpace(in.GatewayID)
	name := strings.TrimSpace(in.Name)
	masterKey := strings.TrimSpace(in.MasterKey)
	switch {
	case gatewayID == "":
		return nil, validationError("gatewayId is required")
	case name == "":
		return nil, validationError("name is required")
	case masterKey == "":
		return nil, validationError("masterKey is required")
	}
	state, err := parseState(in.State)
	if err != nil {
		return nil, err
	}

	master, err := resolveMaster(ctx, s.masters, masterKey)
	if err != nil {
		return nil, err
	}
	taken, err := s.gateways.IsGatewayIDTaken(ctx, gatewayID)
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}
	if taken {
		return nil, duplicate("Gateway ID already taken")
	}

	now := s.now()
	gateway := &models.Gateway{
		ID:          primitive.NewObjectID(),
		GatewayID:   gatewayID,
		Name:        name,
		Description: in.Description,
		Master:      master.ID,
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.gateways.Insert(ctx, gateway); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicate("Gateway ID already taken")
		}
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues(constants.KindGateway).Inc()
	utils.LoggerFromContext(ctx).Info("gateway created",
		zap.String("id", gateway.ID.Hex()),
		zap.String("gatewayId", gatewayID),
		zap.String("masterKey", masterKey),
	)
	return gateway, nil
}

func (s *GatewayService) Get(ctx context.Context, id primitive.ObjectID) (*models.Gateway, error) {
	gateway, err := s.gateways.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.GatewayEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get gateway: %w", err)
	}
	return gateway, nil
}

func (s *GatewayService) List(ctx context.Context, f GatewayFilter) (*models.Page[models.Gateway], error) {
	req, err := pageRequest(f.Page, f.Limit)
	if err != nil {
		return nil, err
	}
	q := repository.GatewayQuery{PageRequest: req}
	if key := strings.TrimSpace(f.MasterKey); key != "" {
		master, err := resolveMaster(ctx, s.masters, key)
		if err != nil {
			return nil, err
		}
		q.Master = master.ID
	}

	page, err := s.gateways.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list gateways: %w", err)
	}
	return page, nil
}

func (s *GatewayService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.gateways.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(models.GatewayEntity + " not found")
	}
	if err != nil {
		return fmt.Errorf("delete gateway: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("gateway deleted", zap.String("id", id.Hex()))
	return nil
}

// parseState defaults an empty state to OFFLINE.
func parseState(state string) (models.State, error) {
	if state == "" {
		return models.StateOffline, nil
	}
	if !models.IsValidState(state) {
		return "", validationError("state must be one of: %s", oneOf(models.ValidStates))
	}
	return models.State(state), nil
}
