package models

// EventType is the outcome class shared by activity logs and faults.
type EventType string

const (
	EventTypeSuccess EventType = "Success"
	EventTypeError   EventType = "Error"
	EventTypeWarning EventType = "Warning"
)

var ValidEventTypes = map[string]bool{
	string(EventTypeSuccess): true,
	string(EventTypeError):   true,
	string(EventTypeWarning): true,
}

func IsValidEventType(eventType string) bool {
	return ValidEventTypes[eventType]
}
