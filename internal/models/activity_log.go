package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityLogCategory string

const (
	CategoryGeneral    ActivityLogCategory = "General"
	CategoryMaster     ActivityLogCategory = "Master"
	CategoryDevices    ActivityLogCategory = "Devices"
	CategoryDeviceLogs ActivityLogCategory = "DeviceLogs"
	CategoryFault      ActivityLogCategory = "Fault"

	ActivityLogEntity = "ActivityLog"
)

var ValidActivityLogCategories = map[string]bool{
	string(CategoryGeneral):    true,
	string(CategoryMaster):     true,
	string(CategoryDevices):    true,
	string(CategoryDeviceLogs): true,
	string(CategoryFault):      true,
}

func IsValidActivityLogCategory(category string) bool {
	return ValidActivityLogCategories[category]
}

type ActivityLog struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Master          primitive.ObjectID     `bson:"master" json:"master"`
	Category        ActivityLogCategory    `bson:"category" json:"category"`
	Type            EventType              `bson:"type" json:"type"`
	Description     string                 `bson:"description,omitempty" json:"description,omitempty"`
	ActivityLogData map[string]interface{} `bson:"activityLogData,omitempty" json:"activityLogData,omitempty"`
	CreatedAt       time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// ActivityLogUpdate carries already-resolved fields; nil leaves a field unchanged.
type ActivityLogUpdate struct {
	Master          *primitive.ObjectID
	Category        *ActivityLogCategory
	Type            *EventType
	Description     *string
	ActivityLogData map[string]interface{}
}
