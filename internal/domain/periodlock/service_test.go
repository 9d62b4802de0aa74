package periodlock

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryStore struct {
	locks map[[2]int]PeriodLock
}

func newMemoryStore() *memoryStore {
	return &memoryStore{locks: make(map[[2]int]PeriodLock)}
}

func (m *memoryStore) IsLocked(ctx context.Context, year, month int) (bool, error) {
	lock, ok := m.locks[[2]int{year, month}]
	return ok && lock.IsLocked, nil
}

func (m *memoryStore) Get(ctx context.Context, year, month int) (PeriodLock, bool, error) {
	lock, ok := m.locks[[2]int{year, month}]
	return lock, ok, nil
}

func (m *memoryStore) List(ctx context.Context, year int) ([]PeriodLock, error) {
	var out []PeriodLock
	for _, lock := range m.locks {
		if year == 0 || lock.Year == year {
			out = append(out, lock)
		}
	}
	return out, nil
}

func (m *memoryStore) Lock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	key := [2]int{year, month}
	before, ok := m.locks[key]
	if ok && before.IsLocked {
		return before, before, ErrAlreadyLocked
	}
	now := time.Now()
	after := before
	after.Year = year
	after.Month = month
	after.IsLocked = true
	after.LockedBy = actor
	after.LockedAt = &now
	after.LockReason = reason
	m.locks[key] = after
	return before, after, nil
}

func (m *memoryStore) Unlock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	key := [2]int{year, month}
	before, ok := m.locks[key]
	if !ok || !before.IsLocked {
		return before, before, ErrNotLocked
	}
	now := time.Now()
	after := before
	after.IsLocked = false
	after.UnlockedBy = actor
	after.UnlockedAt = &now
	after.UnlockReason = reason
	m.locks[key] = after
	return before, after, nil
}

func TestLockAlreadyLockedLeavesRowUnchanged(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()

	_, first, err := service.Lock(ctx, 2025, 3, "alice", "month closed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = service.Lock(ctx, 2025, 3, "bob", "trying again")
	if !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("expected ErrAlreadyLocked, got %v", err)
	}

	current := store.locks[[2]int{2025, 3}]
	if current.LockedBy != first.LockedBy || !current.LockedAt.Equal(*first.LockedAt) {
		t.Fatalf("lock row mutated by failed re-lock: %+v", current)
	}
}

func TestUnlockRequiresReason(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()

	if _, _, err := service.Lock(ctx, 2025, 4, "alice", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := service.Unlock(ctx, 2025, 4, "bob", "   "); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	if _, _, err := service.Unlock(ctx, 2025, 4, "bob", "correction needed"); err != nil {
		t.Fatalf("unlock with reason should succeed: %v", err)
	}
}

func TestRelockAfterUnlock(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()

	if _, _, err := service.Lock(ctx, 2025, 5, "alice", "closed"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, _, err := service.Unlock(ctx, 2025, 5, "bob", "reopening"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, _, err := service.Lock(ctx, 2025, 5, "carol", "closed again"); err != nil {
		t.Fatalf("re-lock: %v", err)
	}

	locked, err := service.IsLocked(ctx, 2025, 5)
	if err != nil || !locked {
		t.Fatalf("expected period locked, got %v %v", locked, err)
	}
}

func TestValidateNotLocked(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()

	if err := service.ValidateNotLocked(ctx, 2025, 6); err != nil {
		t.Fatalf("open period should pass: %v", err)
	}

	if _, _, err := service.Lock(ctx, 2025, 6, "alice", ""); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := service.ValidateNotLocked(ctx, 2025, 6); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}
}

func TestInvalidPeriodRejected(t *testing.T) {
	service := NewService(newMemoryStore())
	if _, _, err := service.Lock(context.Background(), 2025, 13, "a", ""); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := service.IsLocked(context.Background(), 1900, 1); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
