package jobs

import (
	"context"
	"testing"
	"time"

	"hroffice/internal/domain/reminders"
)

type fixedSettings struct {
	values map[string]float64
}

func (f *fixedSettings) GetNumber(ctx context.Context, key string, fallback float64) float64 {
	if v, ok := f.values[key]; ok {
		return v
	}
	return fallback
}

func TestDueSoonCutoffHonorsSetting(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &Service{Settings: &fixedSettings{values: map[string]float64{
		reminders.SettingDueSoonDays: 7,
	}}}

	got := svc.dueSoonCutoff(context.Background(), now)
	if want := now.Add(7 * 24 * time.Hour); !got.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, got)
	}
}

func TestDueSoonCutoffDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := now.Add(reminders.DueSoonDays * 24 * time.Hour)

	svc := &Service{Settings: &fixedSettings{}}
	if got := svc.dueSoonCutoff(context.Background(), now); !got.Equal(want) {
		t.Fatalf("expected default cutoff %v, got %v", want, got)
	}

	// A negative override cannot shrink the window below today.
	svc = &Service{Settings: &fixedSettings{values: map[string]float64{
		reminders.SettingDueSoonDays: -2,
	}}}
	if got := svc.dueSoonCutoff(context.Background(), now); !got.Equal(want) {
		t.Fatalf("expected default cutoff for negative setting, got %v", got)
	}

	svc = &Service{}
	if got := svc.dueSoonCutoff(context.Background(), now); !got.Equal(want) {
		t.Fatalf("expected default cutoff without settings, got %v", got)
	}
}
