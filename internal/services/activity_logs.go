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

type CreateActivityLogInput struct {
	MasterKey       string                 `json:"masterKey"`
	Category        string                 `json:"category"`
	Type            string                 `json:"type"`
	Description     string                 `json:"description,omitempty"`
	ActivityLogData map[string]interface{} `json:"activityLogData,omitempty"`
}

// ActivityLogPatch holds the fields a client asked to change.
type ActivityLogPatch struct {
	MasterKey       *string                `json:"masterKey,omitempty"`
	Category        *string                `json:"category,omitempty"`
	Type            *string                `json:"type,omitempty"`
	Description     *string                `json:"description,omitempty"`
	ActivityLogData map[string]interface{} `json:"activityLogData,omitempty"`
}

func (p ActivityLogPatch) IsEmpty() bool {
	return p.MasterKey == nil && p.Category == nil && p.Type == nil &&
		p.Description == nil && p.ActivityLogData == nil
}

type ActivityLogService struct {
	logs    ActivityLogStore
	masters MasterStore
	now     func() time.Time
}

func NewActivityLogService(logs ActivityLogStore, masters MasterStore) *ActivityLogService {
	return &ActivityLogService{logs: logs, masters: masters, now: defaultNow}
}

func (s *ActivityLogService) Create(ctx context.Context, in CreateActivityLogInput) (*models.ActivityLog, error) {
	masterKey := strings.TrimSpace(in.MasterKey)
	if masterKey == "" {
		return nil, validationError("masterKey is required")
	}
	if err := validateActivityLogEnums(&in.Category, &in.Type); err != nil {
		return nil, err
	}

	master, err := resolveMaster(ctx, s.masters, masterKey)
	if err != nil {
		return nil, err
	}

	now := s.now()
	log := &models.ActivityLog{
		ID:              primitive.NewObjectID(),
		Master:          master.ID,
		Category:        models.ActivityLogCategory(in.Category),
		Type:            models.EventType(in.Type),
		Description:     in.Description,
		ActivityLogData: in.ActivityLogData,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.logs.Insert(ctx, log); err != nil {
		return nil, fmt.Errorf("create activity log: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues(constants.KindActivityLog).Inc()
	utils.LoggerFromContext(ctx).Info("activity log created",
		zap.String("id", log.ID.Hex()),
		zap.String("masterKey", masterKey),
		zap.String("category", in.Category),
		zap.String("type", in.Type),
	)
	return log, nil
}

func (s *ActivityLogService) Get(ctx context.Context, id primitive.ObjectID) (*models.ActivityLog, error) {
	log, err := s.logs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.ActivityLogEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get activity log: %w", err)
	}
	return log, nil
}

// List pages through logs, optionally narrowed to one master and a creation window.
func (s *ActivityLogService) List(ctx context.Context, f RecordFilter) (*models.Page[models.ActivityLog], error) {
	q, err := f.query(primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(f.OwnerKey); key != "" {
		master, err := resolveMaster(ctx, s.masters, key)
		if err != nil {
			return nil, err
		}
		q.OwnerID = master.ID
	}

	page, err := s.logs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return page, nil
}

func (s *ActivityLogService) Update(ctx context.Context, id primitive.ObjectID, patch ActivityLogPatch) (*models.ActivityLog, error) {
	if patch.IsEmpty() {
		return nil, validationError("At least one field must be provided")
	}
	if err := validateActivityLogEnums(patch.Category, patch.Type); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	update := models.ActivityLogUpdate{
		Description:     patch.Description,
		ActivityLogData: patch.ActivityLogData,
	}
	if patch.MasterKey != nil {
		master, err := resolveMaster(ctx, s.masters, strings.TrimSpace(*patch.MasterKey))
		if err != nil {
			return nil, err
		}
		update.Master = &master.ID
	}
	if patch.Category != nil {
		category := models.ActivityLogCategory(*patch.Category)
		update.Category = &category
	}
	if patch.Type != nil {
		eventType := models.EventType(*patch.Type)
		update.Type = &eventType
	}

	log, err := s.logs.Update(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(models.ActivityLogEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update activity log: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("activity log updated", zap.String("id", id.Hex()))
	return log, nil
}

func (s *ActivityLogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.logs.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(models.ActivityLogEntity + " not found")
	}
	if err != nil {
		return fmt.Errorf("delete activity log: %w", err)
	}

	utils.LoggerFromContext(ctx).Info("activity log deleted", zap.String("id", id.Hex()))
	return nil
}

// GetLatest returns the newest log of the master, or the newest overall when masterKey is empty.
func (s *ActivityLogService) GetLatest(ctx context.Context, masterKey string) (*models.ActivityLog, error) {
	owner := primitive.NilObjectID
	if key := strings.TrimSpace(masterKey); key != "" {
		master, err := resolveMaster(ctx, s.masters, key)
		if err != nil {
			return nil, err
		}
		owner = master.ID
	}

	log, err := s.logs.Latest(ctx, owner)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("No activity log found")
	}
	if err != nil {
		return nil, fmt.Errorf("latest activity log: %w", err)
	}
	return log, nil
}

func validateActivityLogEnums(category, eventType *string) error {
	if category != nil && !models.IsValidActivityLogCategory(*category) {
		return validationError("category must be one of: %s", oneOf(models.ValidActivityLogCategories))
	}
	if eventType != nil && !models.IsValidEventType(*eventType) {
		return validationError("type must be one of: %s", oneOf(models.ValidEventTypes))
	}
	return nil
}
