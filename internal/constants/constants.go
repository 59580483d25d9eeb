package constants

import "time"

// Collection names.
const (
	MastersCollection      = "masters"
	GatewaysCollection     = "gateways"
	DevicesCollection      = "devices"
	ActivityLogsCollection = "activitylogs"
	FaultsCollection       = "faults"
)

// Pagination defaults applied when a list request omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 1000
)

const DefaultStoreTimeout = 5 * time.Second

// Record kinds, used as metric labels and log fields.
const (
	KindMaster      = "master"
	KindGateway     = "gateway"
	KindDevice      = "device"
	KindActivityLog = "activityLog"
	KindFault       = "fault"
)
