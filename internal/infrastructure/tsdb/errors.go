package tsdb

import "errors"

// Client errors.
var (
	// ErrConnectionFailed indicates the InfluxDB instance could not be reached.
	ErrConnectionFailed = errors.New("tsdb: connection failed")

	// ErrInvalidConfig indicates required connection settings are missing.
	ErrInvalidConfig = errors.New("tsdb: invalid configuration")
)
