package utils

import (
	"fmt"
	"time"
)

// TimestampLayout is the layout every leg time is rendered with.
const TimestampLayout = time.RFC3339

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	ShortDashDateLayout,
}

// ParseTimestamp parses an ISO-8601 timestamp. Inputs without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", value)
}
