package periodlock

import "time"

type PeriodLock struct {
	ID           string     `json:"id"`
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	IsLocked     bool       `json:"isLocked"`
	LockedBy     string     `json:"lockedBy"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"`
	LockReason   string     `json:"lockReason"`
	UnlockedBy   string     `json:"unlockedBy"`
	UnlockedAt   *time.Time `json:"unlockedAt,omitempty"`
	UnlockReason string     `json:"unlockReason"`
}
