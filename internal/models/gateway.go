package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type State string

const (
	StateOnline  State = "ONLINE"
	StateOffline State = "OFFLINE"

	GatewayEntity = "Gateway"
)

var ValidStates = map[string]bool{
	string(StateOnline):  true,
	string(StateOffline): true,
}

func IsValidState(state string) bool {
	return ValidStates[state]
}

type Gateway struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GatewayID   string             `bson:"gatewayId" json:"gatewayId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Master      primitive.ObjectID `bson:"master" json:"master"`
	State       State              `bson:"state" json:"state"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
