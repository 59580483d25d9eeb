package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05", // 2021-03-15 00:00:00
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseDateTime accepts the filter layouts clients send. Values without a zone are UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, lastErr)
}
