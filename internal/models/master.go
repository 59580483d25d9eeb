package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MasterEntity = "Master"

type Master struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MasterKey   string             `bson:"masterKey" json:"masterKey"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MasterUpdate lists the mutable master fields; nil leaves a field unchanged.
type MasterUpdate struct {
	Name        *string
	Description *string
}

func (u MasterUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}
