package service

import "errors"

var (
	ErrMissingFields    = errors.New("phone_number and scheduled_time are required")
	ErrPhoneTooShort    = errors.New("phone_number must be at least 10 characters")
	ErrBadScheduleTime  = errors.New("scheduled_time must be a valid RFC 3339 timestamp")
	ErrPastScheduleTime = errors.New("scheduled_time must be in the future")
)

// IsValidation reports whether err is one of the creation-time validation
// errors, which callers surface as bad input rather than server failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrPhoneTooShort) ||
		errors.Is(err, ErrBadScheduleTime) ||
		errors.Is(err, ErrPastScheduleTime)
}
