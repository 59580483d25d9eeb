package services

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type CreateMasterInput struct {
	MasterKey   string `json:"masterKey"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MasterPatch may repeat the current masterKey; any other value is rejected.
type MasterPatch struct {
	MasterKey   *string `json:"masterKey,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type MasterService struct {
	masters MasterStore
	now     func() time.Time
}

func NewMasterService(masters MasterStore) *MasterService {
	return &MasterService{masters: masters, now: defaultNow}
}

func (s *MasterService) Create(ctx context.Context, user primitive.ObjectID, in CreateMasterInput) (*models.Master, error) {
	masterKey := strings.TrimSpace(in.MasterKey)
	name := strings.TrimSpace(in.Name)
	if masterKey == "" {
		return nil, validationError("masterKey is required")
	}
	if name == "" {
		return nil, validationError("name is required")
	}

	taken, err := s.masters.IsMasterKeyTaken(ctx, masterKey, primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("create master: %w", err)
	}
	if taken {
		return nil, duplicate("Master key already taken")
	}

	now := s.now()
	master := &models.Master{
		ID:          primitive.NewObjectID(),
		MasterKey:   masterKey,
		Name:        name,
		Description: in.Description,
		User:        user,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.masters.Insert(ctx, master); err != nil {
		// lost a race with a concurrent create of the same key
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicate("Master key already taken")
		}
		return nil, fmt.Errorf("create master: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues(constants.KindMaster).Inc()
	utils.LoggerFromContext(ctx).Info("master created",
		zap.String("id", master.ID.Hex()),
		zap.String("masterKey", masterKey),
		zap.String("user", user.Hex()),
	)
	return master, nil
}

func (s *MasterService) Get(ctx context.Context, id primitive.ObjectID) (*models.Master, error) {
	master, err := s.masters.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.MasterEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	return master, nil
}

// List pages through the masters owned by user.
func (s *MasterService) List(ctx context.Context, user primitive.ObjectID, page, limit int) (*models.Page[models.Master], error) {
	req, err := pageRequest(page, limit)
	if err != nil {
		return nil, err
	}
	result, err := s.masters.List(ctx, repository.MasterQuery{User: user, PageRequest: req})
	if err != nil {
		return nil, fmt.Errorf("list masters: %w", err)
	}
	return result, nil
}

func (s *MasterService) Update(ctx context.Context, user, id primitive.ObjectID, patch MasterPatch) (*models.Master, error) {
	if patch.MasterKey == nil && patch.Name == nil && patch.Description == nil {
		return nil, validationError("At least one field must be provided")
	}

	current, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if patch.MasterKey != nil && strings.TrimSpace(*patch.MasterKey) != current.MasterKey {
		return nil, validationError("masterKey cannot be changed")
	}

	update := models.MasterUpdate{Description: patch.Description}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationError("name must not be empty")
		}
		update.Name = &name
	}
	if update.IsEmpty() {
		return current, nil
	}

	master, err := s.masters.Update(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.MasterEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update master: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("master updated", zap.String("id", id.Hex()))
	return master, nil
}

// Delete removes the master. Gateways and records that reference it are left in place.
func (s *MasterService) Delete(ctx context.Context, user, id primitive.ObjectID) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}

	err := s.masters.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(models.MasterEntity + " not found")
	}
	if err != nil {
		return fmt.Errorf("delete master: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("master deleted", zap.String("id", id.Hex()))
	return nil
}

func (s *MasterService) owned(ctx context.Context, user, id primitive.ObjectID) (*models.Master, error) {
	master, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if master.User != user {
		return nil, forbidden("You are not the owner of this master")
	}
	return master, nil
}

func pageRequest(page, limit int) (repository.PageRequest, error) {
	if page < 0 || limit < 0 {
		return repository.PageRequest{}, validationError("page and limit must be at least 1")
	}
	if limit > constants.MaxLimit {
		return repository.PageRequest{}, validationError("limit must be at most %d", constants.MaxLimit)
	}
	req := repository.PageRequest{Page: page, Limit: limit}
	if req.Skip() == math.MaxInt64 {
		return repository.PageRequest{}, validationError("page is out of range")
	}
	return req, nil
}
