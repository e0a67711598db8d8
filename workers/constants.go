package workers

import "time"

const (
	LockdropDriverID = 1
	BlockProducerID  = 2

	// ExecuteTimeout bounds one driver tick, fetches included.
	ExecuteTimeout = 2 * time.Minute

	driverStateKey = "LockdropDriver-State"
	eventPageSize  = 500
)
