package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceType string

const (
	DeviceTypeLogger   DeviceType = "LOGGER"
	DeviceTypeInverter DeviceType = "INVERTER"
	DeviceTypeSensor   DeviceType = "SENSOR"

	DeviceEntity = "Device"
)

var ValidDeviceTypes = map[string]bool{
	string(DeviceTypeLogger):   true,
	string(DeviceTypeInverter): true,
	string(DeviceTypeSensor):   true,
}

func IsValidDeviceType(deviceType string) bool {
	return ValidDeviceTypes[deviceType]
}

// Device is unique by (Gateway, DeviceID); the device key is only meaningful under its gateway.
type Device struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeviceID  string             `bson:"deviceId" json:"deviceId"`
	Name      string             `bson:"name" json:"name"`
	Type      DeviceType         `bson:"type" json:"type"`
	Gateway   primitive.ObjectID `bson:"gateway" json:"gateway"`
	State     State              `bson:"state" json:"state"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
