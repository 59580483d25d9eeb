package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/embedded-iot/unified-be/internal/models"
)

type FaultRepository struct {
	store collection[models.Fault]
}

func NewFaultRepository(coll *mongo.Collection, timeout time.Duration) *FaultRepository {
	return &FaultRepository{store: newCollection[models.Fault](coll, timeout)}
}

func (r *FaultRepository) Insert(ctx context.Context, fault *models.Fault) error {
	return r.store.insert(ctx, fault)
}

func (r *FaultRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Fault, error) {
	return r.store.findByID(ctx, id)
}

func (r *FaultRepository) List(ctx context.Context, q RecordQuery) (*models.Page[models.Fault], error) {
	return r.store.paginate(ctx, BuildRecordFilter("gateway", q), q.PageRequest)
}

// Latest returns the newest fault reported through gateway, or overall when gateway is zero.
func (r *FaultRepository) Latest(ctx context.Context, gateway primitive.ObjectID) (*models.Fault, error) {
	return r.store.latest(ctx, ownerFilter("gateway", gateway))
}

func (r *FaultRepository) Update(ctx context.Context, id primitive.ObjectID, u models.FaultUpdate) (*models.Fault, error) {
	return r.store.updateByID(ctx, id, faultSet(u))
}

func (r *FaultRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.deleteByID(ctx, id)
}

func faultSet(u models.FaultUpdate) bson.M {
	set := bson.M{"updatedAt": now()}
	if u.Gateway != nil {
		set["gateway"] = *u.Gateway
	}
	if u.Device != nil {
		set["device"] = *u.Device
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Event != nil {
		set["event"] = *u.Event
	}
	if u.Position != nil {
		set["position"] = *u.Position
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Reason != nil {
		set["reason"] = *u.Reason
	}
	if u.Suggest != nil {
		set["suggest"] = *u.Suggest
	}
	if u.FaultData != nil {
		set["faultData"] = u.FaultData
	}
	return set
}
