package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hroffice/internal/domain/notifications"
	"hroffice/internal/domain/reminders"
	"hroffice/internal/platform/config"
)

const JobReminderScan = "reminder_scan"

// SettingSource is satisfied by the settings service. The scan reads the
// due-soon window from it so jobs and the HTTP layer agree on a reminder's
// status.
type SettingSource interface {
	GetNumber(ctx context.Context, key string, fallback float64) float64
}

type Service struct {
	DB            *pgxpool.Pool
	Cfg           config.Config
	Reminders     *reminders.Store
	Notifications *notifications.Store
	Mailer        notifications.Mailer
	Settings      SettingSource
	queue         chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, rem *reminders.Store, notif *notifications.Store, mailer notifications.Mailer, settings SettingSource) *Service {
	return &Service{
		DB:            db,
		Cfg:           cfg,
		Reminders:     rem,
		Notifications: notif,
		Mailer:        mailer,
		Settings:      settings,
		queue:         make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.ReminderScanPeriod > 0 {
		go s.scheduleReminderScan(ctx, s.Cfg.ReminderScanPeriod)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details = $2, finished_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleReminderScan(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobReminderScan, func(ctx context.Context) (any, error) {
				return s.ScanReminders(ctx, time.Now())
			})
		}
	}
}

// ScanReminders raises a notification for every open reminder inside the
// due-soon window or past due. Each reminder gets at most one notification
// per type; crossing from due_soon to overdue raises a second one.
func (s *Service) ScanReminders(ctx context.Context, now time.Time) (map[string]int, error) {
	cutoff := s.dueSoonCutoff(ctx, now)
	due, err := s.Reminders.ListDueBy(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{"scanned": len(due), "notified": 0}
	for _, r := range due {
		notifType := notifications.TypeReminderDue
		if r.DueDate.Before(now) {
			notifType = notifications.TypeReminderOverdue
		}

		exists, err := s.Notifications.HasForReminder(ctx, r.ID, notifType)
		if err != nil {
			return counts, err
		}
		if exists {
			continue
		}

		title := fmt.Sprintf("Reminder due: %s", r.Title)
		if notifType == notifications.TypeReminderOverdue {
			title = fmt.Sprintf("Reminder overdue: %s", r.Title)
		}
		body := fmt.Sprintf("%s is due on %s.", r.Title, r.DueDate.Format("2006-01-02"))

		if _, err := s.Notifications.Insert(ctx, notifications.Notification{
			Type:       notifType,
			Title:      title,
			Body:       body,
			ReminderID: r.ID,
		}); err != nil {
			return counts, err
		}
		counts["notified"]++

		if s.Cfg.EmailEnabled {
			if err := s.Mailer.Send(ctx, s.Cfg.EmailFrom, s.Cfg.SeedAdminEmail, title, body); err != nil {
				slog.Warn("reminder email failed", "reminderId", r.ID, "err", err)
			}
		}
	}
	return counts, nil
}

func (s *Service) dueSoonCutoff(ctx context.Context, now time.Time) time.Time {
	days := reminders.DueSoonDays
	if s.Settings != nil {
		if configured := s.Settings.GetNumber(ctx, reminders.SettingDueSoonDays, reminders.DueSoonDays); configured >= 0 {
			days = int(configured)
		}
	}
	return now.Add(time.Duration(days) * 24 * time.Hour)
}
