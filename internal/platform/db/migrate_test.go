package db

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// The background scan leaves notifications pointing at reminders. Deleting a
// reminder must detach those rows rather than fail on the foreign key, so
// the schema has to declare ON DELETE SET NULL for notifications.reminder_id.
func TestSchemaDetachesNotificationsOnReminderDelete(t *testing.T) {
	sqlBytes, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_init.sql"))
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}

	pattern := regexp.MustCompile(`reminder_id\s+UUID\s+REFERENCES\s+reminders\s*\(id\)\s+ON\s+DELETE\s+SET\s+NULL`)
	if !pattern.Match(sqlBytes) {
		t.Fatalf("notifications.reminder_id must use ON DELETE SET NULL")
	}
}

func TestMigrationFilesAreOrderedSQL(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".sql") {
			t.Fatalf("unexpected non-sql file in migrations: %s", entry.Name())
		}
	}
}
