package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/repository"
	"github.com/embedded-iot/unified-be/internal/utils"
)

// RecordFilter is the listing request shared by activity logs and faults.
// OwnerKey is the masterKey or gatewayId; From and To are raw datetime strings.
type RecordFilter struct {
	OwnerKey string
	From     string
	To       string
	Page     int
	Limit    int
}

func (f RecordFilter) query(owner primitive.ObjectID) (repository.RecordQuery, error) {
	req, err := pageRequest(f.Page, f.Limit)
	if err != nil {
		return repository.RecordQuery{}, err
	}
	q := repository.RecordQuery{OwnerID: owner, PageRequest: req}
	if q.From, err = parseBound("from", f.From); err != nil {
		return q, err
	}
	if q.To, err = parseBound("to", f.To); err != nil {
		return q, err
	}
	return q, nil
}

func parseBound(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := utils.ParseDateTime(value)
	if err != nil {
		return nil, validationError("%q must be a valid datetime, e.g. 2021-03-15 00:00:00", field)
	}
	return &t, nil
}

// Owner lookups: the human key is resolved to the internal id before any record is touched.

func resolveMaster(ctx context.Context, masters MasterStore, masterKey string) (*models.Master, error) {
	master, err := masters.FindByKey(ctx, masterKey)
	if errors.Is(err, repository.ErrNotFound) {
		utils.LoggerFromContext(ctx).Debug("owner lookup missed", zap.String("entity", models.MasterEntity), zap.String("masterKey", masterKey))
		return nil, notFound(models.MasterEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve master %q: %w", masterKey, err)
	}
	return master, nil
}

func resolveGateway(ctx context.Context, gateways GatewayStore, gatewayID string) (*models.Gateway, error) {
	gateway, err := gateways.FindByGatewayID(ctx, gatewayID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.LoggerFromContext(ctx).Debug("owner lookup missed", zap.String("entity", models.GatewayEntity), zap.String("gatewayId", gatewayID))
		return nil, notFound(models.GatewayEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve gateway %q: %w", gatewayID, err)
	}
	return gateway, nil
}

func resolveDevice(ctx context.Context, devices DeviceStore, gateway primitive.ObjectID, deviceID string) (*models.Device, error) {
	device, err := devices.FindByDeviceID(ctx, gateway, deviceID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.LoggerFromContext(ctx).Debug("owner lookup missed", zap.String("entity", models.DeviceEntity), zap.String("deviceId", deviceID))
		return nil, notFound(models.DeviceEntity + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve device %q: %w", deviceID, err)
	}
	return device, nil
}

func oneOf(valid map[string]bool) string {
	values := make([]string, 0, len(valid))
	for v := range valid {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
