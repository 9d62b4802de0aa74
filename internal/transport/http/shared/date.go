package shared

import (
	"strings"
	"time"
)

// ParseDate accepts the date-only form the console sends, plus full
// RFC3339 timestamps from API clients. Empty input maps to the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
