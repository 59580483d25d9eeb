package models_test

import (
	"testing"

	"github.com/embedded-iot/unified-be/internal/models"
)

func TestIsValidActivityLogCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		isValid  bool
	}{
		{"General", string(models.CategoryGeneral), true},
		{"Master", string(models.CategoryMaster), true},
		{"Devices", string(models.CategoryDevices), true},
		{"DeviceLogs", string(models.CategoryDeviceLogs), true},
		{"Fault", string(models.CategoryFault), true},
		{"Wrong case", "general", false},
		{"Unknown", "Billing", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.IsValidActivityLogCategory(tt.category); got != tt.isValid {
				t.Errorf("IsValidActivityLogCategory(%q) = %v, want %v", tt.category, got, tt.isValid)
			}
		})
	}
}

func TestIsValidEventType(t *testing.T) {
	tests := []struct {
		eventType string
		isValid   bool
	}{
		{"Success", true},
		{"Error", true},
		{"Warning", true},
		{"Info", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			if got := models.IsValidEventType(tt.eventType); got != tt.isValid {
				t.Errorf("IsValidEventType(%q) = %v, want %v", tt.eventType, got, tt.isValid)
			}
		})
	}
}

func TestIsValidFaultCategory(t *testing.T) {
	if !models.IsValidFaultCategory("LoggerFault") {
		t.Error("LoggerFault should be valid")
	}
	if models.IsValidFaultCategory("Devices") {
		t.Error("activity log category must not be accepted as fault category")
	}
}

func TestIsValidDeviceTypeAndState(t *testing.T) {
	for _, dt := range []string{"LOGGER", "INVERTER", "SENSOR"} {
		if !models.IsValidDeviceType(dt) {
			t.Errorf("%s should be a valid device type", dt)
		}
	}
	if models.IsValidDeviceType("METER") {
		t.Error("METER should not be a valid device type")
	}
	if !models.IsValidState("ONLINE") || !models.IsValidState("OFFLINE") {
		t.Error("ONLINE and OFFLINE should be valid states")
	}
	if models.IsValidState("BLOCKED") {
		t.Error("BLOCKED is a user state, not a hardware state")
	}
}
