package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/repository"
)

// Store contracts the services rely on. The repository package provides the Mongo implementations.

type MasterStore interface {
	Insert(ctx context.Context, master *models.Master) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Master, error)
	FindByKey(ctx context.Context, masterKey string) (*models.Master, error)
	IsMasterKeyTaken(ctx context.Context, masterKey string, excludeID primitive.ObjectID) (bool, error)
	List(ctx context.Context, q repository.MasterQuery) (*models.Page[models.Master], error)
	Update(ctx context.Context, id primitive.ObjectID, u models.MasterUpdate) (*models.Master, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GatewayStore interface {
	Insert(ctx context.Context, gateway *models.Gateway) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Gateway, error)
	FindByGatewayID(ctx context.Context, gatewayID string) (*models.Gateway, error)
	IsGatewayIDTaken(ctx context.Context, gatewayID string) (bool, error)
	List(ctx context.Context, q repository.GatewayQuery) (*models.Page[models.Gateway], error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DeviceStore interface {
	Insert(ctx context.Context, device *models.Device) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error)
	FindByDeviceID(ctx context.Context, gateway primitive.ObjectID, deviceID string) (*models.Device, error)
	IsDeviceIDTaken(ctx context.Context, gateway primitive.ObjectID, deviceID string) (bool, error)
	List(ctx context.Context, q repository.DeviceQuery) (*models.Page[models.Device], error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ActivityLogStore interface {
	Insert(ctx context.Context, log *models.ActivityLog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ActivityLog, error)
	List(ctx context.Context, q repository.RecordQuery) (*models.Page[models.ActivityLog], error)
	Latest(ctx context.Context, master primitive.ObjectID) (*models.ActivityLog, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.ActivityLogUpdate) (*models.ActivityLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FaultStore interface {
	Insert(ctx context.Context, fault *models.Fault) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Fault, error)
	List(ctx context.Context, q repository.RecordQuery) (*models.Page[models.Fault], error)
	Latest(ctx context.Context, gateway primitive.ObjectID) (*models.Fault, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.FaultUpdate) (*models.Fault, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
