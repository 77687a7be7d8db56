package waitlist

import "errors"

var (
	ErrEntryNotFound = errors.New("waitlist entry not found")
	ErrBuildQuery    = errors.New("failed to build query")
	ErrExecQuery     = errors.New("failed to execute query")
	ErrScanRow       = errors.New("failed to scan row")
)
