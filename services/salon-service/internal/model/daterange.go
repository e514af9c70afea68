package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPartialRange  = errors.New("startDate and endDate must be provided together")
	ErrInvertedRange = errors.New("startDate must not be after endDate")
	ErrBadDate       = errors.New("dates must be YYYY-MM-DD or RFC 3339")
)

// DateRange is a half-open interval [From, To). The zero value matches
// everything.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	return !t.Before(r.From) && t.Before(r.To)
}

// Days returns the first and last calendar day covered by the range, in the
// location the bounds were parsed in.
func (r DateRange) Days() (first, last string) {
	return r.From.Format(DateLayout), r.To.Add(-time.Microsecond).Format(DateLayout)
}

// ParseDateRange builds an inclusive range from user input. A date-only end
// bound covers that whole day.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" && end == "" {
		return DateRange{}, nil
	}
	if start == "" || end == "" {
		return DateRange{}, ErrPartialRange
	}
	from, _, err := ParseInstant(start, loc)
	if err != nil {
		return DateRange{}, err
	}
	to, dateOnly, err := ParseInstant(end, loc)
	if err != nil {
		return DateRange{}, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	} else {
		to = to.Add(time.Microsecond)
	}
	// Compare against the widened end so a timestamp start inside a
	// date-only end day is accepted.
	if !from.Before(to) {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{From: from, To: to}, nil
}

// ParseInstant accepts a calendar date (midnight in loc) or an RFC 3339
// timestamp.
func ParseInstant(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return d, true, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.In(loc), false, nil
	}
	return time.Time{}, false, ErrBadDate
}
