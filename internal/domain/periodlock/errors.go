package periodlock

import "errors"

var (
	ErrAlreadyLocked  = errors.New("period is already locked")
	ErrNotLocked      = errors.New("period is not locked")
	ErrPeriodLocked   = errors.New("period is locked for financial changes")
	ErrReasonRequired = errors.New("unlock reason is required")
	ErrInvalidPeriod  = errors.New("invalid year/month")
)
