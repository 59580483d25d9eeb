package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/embedded-iot/unified-be/internal/models"
)

type DeviceQuery struct {
	Gateway primitive.ObjectID
	PageRequest
}

type DeviceRepository struct {
	store collection[models.Device]
}

func NewDeviceRepository(coll *mongo.Collection, timeout time.Duration) *DeviceRepository {
	return &DeviceRepository{store: newCollection[models.Device](coll, timeout)}
}

func (r *DeviceRepository) Insert(ctx context.Context, device *models.Device) error {
	return r.store.insert(ctx, device)
}

func (r *DeviceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	return r.store.findByID(ctx, id)
}

// FindByDeviceID looks the device key up under its gateway.
func (r *DeviceRepository) FindByDeviceID(ctx context.Context, gateway primitive.ObjectID, deviceID string) (*models.Device, error) {
	return r.store.findOne(ctx, bson.M{"gateway": gateway, "deviceId": deviceID})
}

func (r *DeviceRepository) IsDeviceIDTaken(ctx context.Context, gateway primitive.ObjectID, deviceID string) (bool, error) {
	return r.store.exists(ctx, bson.M{"gateway": gateway, "deviceId": deviceID})
}

func (r *DeviceRepository) List(ctx context.Context, q DeviceQuery) (*models.Page[models.Device], error) {
	return r.store.paginate(ctx, ownerFilter("gateway", q.Gateway), q.PageRequest)
}

func (r *DeviceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.deleteByID(ctx, id)
}
