package periodlock

import "context"

type StoreAPI interface {
	IsLocked(ctx context.Context, year, month int) (bool, error)
	Get(ctx context.Context, year, month int) (PeriodLock, bool, error)
	List(ctx context.Context, year int) ([]PeriodLock, error)
	// Lock and Unlock run the read-then-write transition inside a
	// transaction holding a row lock, and return the before/after rows.
	Lock(ctx context.Context, year, month int, actor, reason string) (before, after PeriodLock, err error)
	Unlock(ctx context.Context, year, month int, actor, reason string) (before, after PeriodLock, err error)
}
