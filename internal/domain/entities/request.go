package entities

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar date format: 4-digit year,
// 2-digit month, 2-digit day. No time zone conversion is applied anywhere;
// dates are compared by their year/month/day components as entered.
const DateLayout = "2006-01-02"

// TimeLayout is the only accepted time-of-day format, 24-hour with minutes.
const TimeLayout = "15:04"

// RideRequest is a fully collected request: every field present and
// validated. The conversation draft (see Draft) upgrades into one of these
// the moment the final field is accepted.
type RideRequest struct {
	Pickup Location
	Drop   Location
	Date   time.Time
	Minute int // minutes since midnight
}

// Draft is the partially filled request accumulated across a session's
// turns. Fields are pointers so "not yet answered" is distinguishable from
// any legitimate value.
type Draft struct {
	Pickup *Location
	Drop   *Location
	Date   *time.Time
	Minute *int
}

// Complete upgrades the draft to a RideRequest. It panics if any field is
// still nil; the state machine only calls this after the final field is set.
func (d *Draft) Complete() RideRequest {
	return RideRequest{
		Pickup: *d.Pickup,
		Drop:   *d.Drop,
		Date:   *d.Date,
		Minute: *d.Minute,
	}
}

// Reset clears every field for the next flow.
func (d *Draft) Reset() {
	d.Pickup = nil
	d.Drop = nil
	d.Date = nil
	d.Minute = nil
}

// ParseDate parses a strict YYYY-MM-DD string. time.Parse alone would accept
// some shapes we don't want (it is already strict about ranges, rejecting
// month 13 or day 40), so the length check pins the exact digit layout.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return t, nil
}

// ParseMinute parses a strict 24-hour HH:MM string into minutes since
// midnight. Hours 00-23, minutes 00-59.
func ParseMinute(s string) (int, error) {
	if len(s) != len(TimeLayout) {
		return 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinute renders minutes since midnight as HH:MM.
func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
