package utils

import (
	"fmt"
	"time"
)

// saleDayFormats are the layouts a date cell may arrive in. Plain dates come
// from CSV uploads; the RFC3339 variants are what database/sql produces when
// a Postgres date or timestamp column is scanned into a string.
var saleDayFormats = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses an optional date query parameter. It returns nil when the
// input is empty so callers can tell "not provided" from a real date.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// ParseSaleDay parses a date cell read from the store or an upload, trying
// each accepted layout in order. The result is truncated to its calendar
// date: sale_day is a day, and the filters compare days, so any time-of-day
// carried by a timestamp layout is discarded.
func ParseSaleDay(value string) (time.Time, error) {
	for _, layout := range saleDayFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date value: %q", value)
}
