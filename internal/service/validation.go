package service

import (
	"strings"
	"time"
)

const minPhoneLen = 10

func ValidatePhoneNumber(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrMissingFields
	}
	if len(trimmed) < minPhoneLen {
		return "", ErrPhoneTooShort
	}
	return trimmed, nil
}

// ParseScheduleTime parses an RFC 3339 timestamp and checks it lies strictly
// after now. The result is normalized to UTC so stored values round-trip
// through the API boundary unchanged.
func ParseScheduleTime(raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, ErrMissingFields
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrBadScheduleTime
	}
	if !t.After(now) {
		return time.Time{}, ErrPastScheduleTime
	}
	return t.UTC(), nil
}
