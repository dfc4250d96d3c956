// Package vntime resolves user-supplied date and time text into
// timezone-correct instants for the Asia/Ho_Chi_Minh fixed zone (UTC+7).
//
// All instants leaving this package are UTC; local-time strings are a
// presentation-only view produced by the Display helpers.
package vntime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timezone is the fixed display and computation timezone. It has no
// daylight saving rules, so local/UTC conversion is always exactly 7 hours.
const Timezone = "Asia/Ho_Chi_Minh"

// Location is the pre-loaded Asia/Ho_Chi_Minh location.
var Location = mustLoadLocation(Timezone)

func mustLoadLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// Sentinel errors for caller-input failures. Both wrap the offending
// string so the tool boundary can report it back to the user.
var (
	// ErrInvalidDate indicates a date string matched neither
	// YYYY-MM-DD nor DD/MM/YYYY.
	ErrInvalidDate = fmt.Errorf("invalid date format")

	// ErrInvalidDateTime indicates a datetime string matched neither
	// "YYYY-MM-DD HH:MM" nor "YYYY-MM-DD".
	ErrInvalidDateTime = fmt.Errorf("invalid datetime format")
)

// Date is a civil calendar date in the fixed local timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ISO renders the date as YYYY-MM-DD, the boundary format for all-day
// events of the calendar provider.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Slash renders the date as DD/MM/YYYY for display.
func (d Date) Slash() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

// Stamp is a parsed datetime input. A nil Clock marks an all-day value,
// which is never timezone-converted.
type Stamp struct {
	Date  Date
	Clock *Clock
}

// AllDay reports whether the stamp carries no time of day.
func (s Stamp) AllDay() bool {
	return s.Clock == nil
}

// Resolver converts date/time text to instants using an injected clock.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver creates a resolver on the fixed timezone and system clock.
func NewResolver() *Resolver {
	return &Resolver{loc: Location, now: time.Now}
}

// NewResolverAt creates a resolver with a fixed clock.
func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{loc: Location, now: now}
}

// Location returns the resolver's fixed location.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the current time in the fixed local timezone.
func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

// ParseDate parses YYYY-MM-DD or DD/MM/YYYY. A "/" separator takes
// precedence and is read as day/month/year; "-" without "/" is read as
// year-month-day. Anything else fails with ErrInvalidDate.
func (r *Resolver) ParseDate(text string) (Date, error) {
	text = strings.TrimSpace(text)

	var y, m, d int
	var err error
	switch {
	case strings.Contains(text, "/"):
		d, m, y, err = splitDateFields(text, "/")
	case strings.Contains(text, "-"):
		y, m, d, err = splitDateFields(text, "-")
	default:
		err = fmt.Errorf("no recognized separator")
	}
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q (dùng 'YYYY-MM-DD' hoặc 'DD/MM/YYYY')", ErrInvalidDate, text)
	}

	date := Date{Year: y, Month: time.Month(m), Day: d}
	if !date.valid() {
		return Date{}, fmt.Errorf("%w: %q (dùng 'YYYY-MM-DD' hoặc 'DD/MM/YYYY')", ErrInvalidDate, text)
	}
	return date, nil
}

// splitDateFields splits on sep and returns the three numeric fields in
// input order.
func splitDateFields(text, sep string) (int, int, int, error) {
	parts := strings.Split(text, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, err
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// valid reports whether the date names a real calendar day. Construction
// through time.Date normalizes overflow (month 13 becomes January), so a
// round-trip mismatch exposes out-of-range fields.
func (d Date) valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

// ParseDateTime parses event time input. Two whitespace-separated tokens
// are read as "YYYY-MM-DD HH:MM" (a timed value); a single token is read
// as "YYYY-MM-DD" (an all-day value). Failures carry ErrInvalidDateTime.
func (r *Resolver) ParseDateTime(text string) (Stamp, error) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		d, err := parseISODate(fields[0])
		if err != nil {
			return Stamp{}, fmt.Errorf("%w: %q (dùng 'YYYY-MM-DD HH:MM' hoặc 'YYYY-MM-DD')", ErrInvalidDateTime, text)
		}
		return Stamp{Date: d}, nil
	case 2:
		d, derr := parseISODate(fields[0])
		c, cerr := parseClock(fields[1])
		if derr != nil || cerr != nil {
			return Stamp{}, fmt.Errorf("%w: %q (dùng 'YYYY-MM-DD HH:MM' hoặc 'YYYY-MM-DD')", ErrInvalidDateTime, text)
		}
		return Stamp{Date: d, Clock: &c}, nil
	default:
		return Stamp{}, fmt.Errorf("%w: %q (dùng 'YYYY-MM-DD HH:MM' hoặc 'YYYY-MM-DD')", ErrInvalidDateTime, text)
	}
}

func parseISODate(text string) (Date, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("expected YYYY-MM-DD")
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, fmt.Errorf("non-numeric date field")
	}
	date := Date{Year: y, Month: time.Month(m), Day: d}
	if !date.valid() {
		return Date{}, fmt.Errorf("date out of range")
	}
	return date, nil
}

func parseClock(text string) (Clock, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("expected HH:MM")
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Clock{}, fmt.Errorf("non-numeric time field")
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("time out of range")
	}
	return Clock{Hour: h, Minute: m}, nil
}

// DayWindow returns the UTC instants for 00:00:00.000 and 23:59:59.999 of
// the given local calendar day.
func (r *Resolver) DayWindow(d Date) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, r.loc)
	end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
	return start.UTC(), end.UTC()
}

// InstantUTC converts a timed stamp from local wall time to a UTC instant.
// All-day stamps have no instant; the second return is false for them.
func (r *Resolver) InstantUTC(s Stamp) (time.Time, bool) {
	if s.AllDay() {
		return time.Time{}, false
	}
	t := time.Date(s.Date.Year, s.Date.Month, s.Date.Day, s.Clock.Hour, s.Clock.Minute, 0, 0, r.loc)
	return t.UTC(), true
}

// RelativeDay returns the current local calendar date shifted by
// offsetDays. RelativeDay(0) is today, RelativeDay(1) is tomorrow.
func (r *Resolver) RelativeDay(offsetDays int) Date {
	t := r.Now().AddDate(0, 0, offsetDays)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}
