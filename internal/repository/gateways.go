package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/embedded-iot/unified-be/internal/models"
)

type GatewayQuery struct {
	Master primitive.ObjectID
	PageRequest
}

type GatewayRepository struct {
	store collection[models.Gateway]
}

func NewGatewayRepository(coll *mongo.Collection, timeout time.Duration) *GatewayRepository {
	return &GatewayRepository{store: newCollection[models.Gateway](coll, timeout)}
}

func (r *GatewayRepository) Insert(ctx context.Context, gateway *models.Gateway) error {
	return r.store.insert(ctx, gateway)
}

func (r *GatewayRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Gateway, error) {
	return r.store.findByID(ctx, id)
}

func (r *GatewayRepository) FindByGatewayID(ctx context.Context, gatewayID string) (*models.Gateway, error) {
	return r.store.findOne(ctx, bson.M{"gatewayId": gatewayID})
}

func (r *GatewayRepository) IsGatewayIDTaken(ctx context.Context, gatewayID string) (bool, error) {
	return r.store.exists(ctx, bson.M{"gatewayId": gatewayID})
}

func (r *GatewayRepository) List(ctx context.Context, q GatewayQuery) (*models.Page[models.Gateway], error) {
	return r.store.paginate(ctx, ownerFilter("master", q.Master), q.PageRequest)
}

func (r *GatewayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.deleteByID(ctx, id)
}
