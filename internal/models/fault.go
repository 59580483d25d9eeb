package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FaultCategory string

const (
	FaultCategoryLogger   FaultCategory = "LoggerFault"
	FaultCategoryInverter FaultCategory = "InverterFault"
	FaultCategorySensor   FaultCategory = "SensorFault"
	FaultCategoryGateway  FaultCategory = "GatewayFault"

	FaultEntity = "Fault"
)

var ValidFaultCategories = map[string]bool{
	string(FaultCategoryLogger):   true,
	string(FaultCategoryInverter): true,
	string(FaultCategorySensor):   true,
	string(FaultCategoryGateway):  true,
}

func IsValidFaultCategory(category string) bool {
	return ValidFaultCategories[category]
}

type Fault struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Gateway     primitive.ObjectID     `bson:"gateway" json:"gateway"`
	Device      primitive.ObjectID     `bson:"device" json:"device"`
	Category    FaultCategory          `bson:"category" json:"category"`
	Type        EventType              `bson:"type" json:"type"`
	Event       string                 `bson:"event" json:"event"`
	Position    float64                `bson:"position" json:"position"`
	Description string                 `bson:"description,omitempty" json:"description,omitempty"`
	Reason      string                 `bson:"reason,omitempty" json:"reason,omitempty"`
	Suggest     string                 `bson:"suggest,omitempty" json:"suggest,omitempty"`
	FaultData   map[string]interface{} `bson:"faultData,omitempty" json:"faultData,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// FaultUpdate carries already-resolved fields; nil leaves a field unchanged.
type FaultUpdate struct {
	Gateway     *primitive.ObjectID
	Device      *primitive.ObjectID
	Category    *FaultCategory
	Type        *EventType
	Event       *string
	Position    *float64
	Description *string
	Reason      *string
	Suggest     *string
	FaultData   map[string]interface{}
}
