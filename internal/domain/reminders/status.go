package reminders

import "time"

// Status derives the display status from the due date and completion flag.
// Completed wins over everything; otherwise a reminder past its due date is
// overdue, one due within dueSoonDays is due_soon, and the rest are pending.
func Status(r Reminder, now time.Time, dueSoonDays int) string {
	if r.IsCompleted {
		return StatusCompleted
	}
	if r.DueDate.Before(now) {
		return StatusOverdue
	}
	if !r.DueDate.After(now.Add(time.Duration(dueSoonDays) * 24 * time.Hour)) {
		return StatusDueSoon
	}
	return StatusPending
}
