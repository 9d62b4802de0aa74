package periodlock

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func validPeriod(year, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}

func (s *Service) IsLocked(ctx context.Context, year, month int) (bool, error) {
	if !validPeriod(year, month) {
		return false, ErrInvalidPeriod
	}
	return s.store.IsLocked(ctx, year, month)
}

// ValidateNotLocked is the single gate financial-write paths call before
// mutating revenue or expense rows for a period.
func (s *Service) ValidateNotLocked(ctx context.Context, year, month int) error {
	locked, err := s.IsLocked(ctx, year, month)
	if err != nil {
		return err
	}
	if locked {
		return ErrPeriodLocked
	}
	return nil
}

func (s *Service) Get(ctx context.Context, year, month int) (PeriodLock, bool, error) {
	if !validPeriod(year, month) {
		return PeriodLock{}, false, ErrInvalidPeriod
	}
	return s.store.Get(ctx, year, month)
}

func (s *Service) List(ctx context.Context, year int) ([]PeriodLock, error) {
	return s.store.List(ctx, year)
}

// Lock closes the period. The lock reason is optional.
func (s *Service) Lock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	if !validPeriod(year, month) {
		return PeriodLock{}, PeriodLock{}, ErrInvalidPeriod
	}
	return s.store.Lock(ctx, year, month, actor, strings.TrimSpace(reason))
}

// Unlock reopens the period. A non-empty reason is mandatory.
func (s *Service) Unlock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	if !validPeriod(year, month) {
		return PeriodLock{}, PeriodLock{}, ErrInvalidPeriod
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PeriodLock{}, PeriodLock{}, ErrReasonRequired
	}
	return s.store.Unlock(ctx, year, month, actor, reason)
}
