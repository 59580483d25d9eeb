package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/embedded-iot/unified-be/internal/models"
)

type ActivityLogRepository struct {
	store collection[models.ActivityLog]
}

func NewActivityLogRepository(coll *mongo.Collection, timeout time.Duration) *ActivityLogRepository {
	return &ActivityLogRepository{store: newCollection[models.ActivityLog](coll, timeout)}
}

func (r *ActivityLogRepository) Insert(ctx context.Context, log *models.ActivityLog) error {
	return r.store.insert(ctx, log)
}

func (r *ActivityLogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ActivityLog, error) {
	return r.store.findByID(ctx, id)
}

func (r *ActivityLogRepository) List(ctx context.Context, q RecordQuery) (*models.Page[models.ActivityLog], error) {
	return r.store.paginate(ctx, BuildRecordFilter("master", q), q.PageRequest)
}

// Latest returns the newest log of master, or of any master when master is zero.
func (r *ActivityLogRepository) Latest(ctx context.Context, master primitive.ObjectID) (*models.ActivityLog, error) {
	return r.store.latest(ctx, ownerFilter("master", master))
}

func (r *ActivityLogRepository) Update(ctx context.Context, id primitive.ObjectID, u models.ActivityLogUpdate) (*models.ActivityLog, error) {
	return r.store.updateByID(ctx, id, activityLogSet(u))
}

func (r *ActivityLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.deleteByID(ctx, id)
}

func activityLogSet(u models.ActivityLogUpdate) bson.M {
	set := bson.M{"updatedAt": now()}
	if u.Master != nil {
		set["master"] = *u.Master
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.ActivityLogData != nil {
		set["activityLogData"] = u.ActivityLogData
	}
	return set
}
