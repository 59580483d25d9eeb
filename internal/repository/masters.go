package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/embedded-iot/unified-be/internal/models"
)

// MasterQuery lists masters owned by User; a zero User lists all of them.
type MasterQuery struct {
	User primitive.ObjectID
	PageRequest
}

type MasterRepository struct {
	store collection[models.Master]
}

func NewMasterRepository(coll *mongo.Collection, timeout time.Duration) *MasterRepository {
	return &MasterRepository{store: newCollection[models.Master](coll, timeout)}
}

func (r *MasterRepository) Insert(ctx context.Context, master *models.Master) error {
	return r.store.insert(ctx, master)
}

func (r *MasterRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Master, error) {
	return r.store.findByID(ctx, id)
}

func (r *MasterRepository) FindByKey(ctx context.Context, masterKey string) (*models.Master, error) {
	return r.store.findOne(ctx, bson.M{"masterKey": masterKey})
}

// IsMasterKeyTaken reports whether a master other than excludeID already uses masterKey.
func (r *MasterRepository) IsMasterKeyTaken(ctx context.Context, masterKey string, excludeID primitive.ObjectID) (bool, error) {
	return r.store.exists(ctx, bson.M{"masterKey": masterKey, "_id": bson.M{"$ne": excludeID}})
}

func (r *MasterRepository) List(ctx context.Context, q MasterQuery) (*models.Page[models.Master], error) {
	return r.store.paginate(ctx, ownerFilter("user", q.User), q.PageRequest)
}

func (r *MasterRepository) Update(ctx context.Context, id primitive.ObjectID, u models.MasterUpdate) (*models.Master, error) {
	set := bson.M{"updatedAt": now()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	return r.store.updateByID(ctx, id, set)
}

func (r *MasterRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.deleteByID(ctx, id)
}

// now matches the millisecond precision Mongo stores dates with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
