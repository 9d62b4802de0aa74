package reminders

import (
	"testing"
	"time"
)

func TestStatusDueSoonWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reminder{DueDate: now.Add(48 * time.Hour)}
	if got := Status(r, now, DueSoonDays); got != StatusDueSoon {
		t.Fatalf("due in 2 days: expected %q, got %q", StatusDueSoon, got)
	}
}

func TestStatusOverdueWhenPastDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reminder{DueDate: now.Add(-24 * time.Hour)}
	if got := Status(r, now, DueSoonDays); got != StatusOverdue {
		t.Fatalf("due yesterday: expected %q, got %q", StatusOverdue, got)
	}
}

func TestStatusPendingBeyondWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reminder{DueDate: now.Add(10 * 24 * time.Hour)}
	if got := Status(r, now, DueSoonDays); got != StatusPending {
		t.Fatalf("due in 10 days: expected %q, got %q", StatusPending, got)
	}
}

func TestStatusCompletedWinsOverOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reminder{DueDate: now.Add(-72 * time.Hour), IsCompleted: true}
	if got := Status(r, now, DueSoonDays); got != StatusCompleted {
		t.Fatalf("completed reminder: expected %q, got %q", StatusCompleted, got)
	}
}

func TestStatusBoundaryExactlyThreeDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reminder{DueDate: now.Add(3 * 24 * time.Hour)}
	if got := Status(r, now, DueSoonDays); got != StatusDueSoon {
		t.Fatalf("due in exactly 3 days: expected %q, got %q", StatusDueSoon, got)
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{TypeGeneral, TypeContractRenewal, TypeVisaExpiry, TypeDocumentExpiry, TypeProbationEnd} {
		if !ValidType(typ) {
			t.Fatalf("%q should be a valid type", typ)
		}
	}
	if ValidType("birthday") {
		t.Fatal("unknown type accepted")
	}
}
