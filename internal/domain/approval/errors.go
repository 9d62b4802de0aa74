package approval

import "errors"

var (
	ErrNotFound         = errors.New("approval request not found")
	ErrAlreadyProcessed = errors.New("approval request already processed")
	ErrInvalidOperation = errors.New("invalid approval operation")
	ErrMissingRequest   = errors.New("approval request data is required")
	ErrMissingCurrent   = errors.New("approval current data is required")
)
