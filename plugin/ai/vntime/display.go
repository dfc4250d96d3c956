package vntime

import "time"

// Display formats. The repository renders dates Vietnamese-style,
// day first.
const (
	displayDateLayout     = "02/01/2006"
	displayDateTimeLayout = "02/01/2006 15:04"
	displayClockLayout    = "15:04"

	// AllDayLabel is the Vietnamese marker for date-only events.
	AllDayLabel = "Cả ngày"
)

// DisplayInstant renders a UTC instant as DD/MM/YYYY HH:MM local time.
func DisplayInstant(t time.Time) string {
	return t.In(Location).Format(displayDateTimeLayout)
}

// DisplayClock renders a UTC instant as HH:MM local time, used in
// single-day listings where the date is already known.
func DisplayClock(t time.Time) string {
	return t.In(Location).Format(displayClockLayout)
}

// DisplayAllDay renders an all-day date as DD/MM/YYYY (Cả ngày).
// All-day dates are provider-verbatim and never timezone-converted.
func DisplayAllDay(d Date) string {
	return d.Slash() + " (" + AllDayLabel + ")"
}

// DisplayDate renders a date as DD/MM/YYYY.
func DisplayDate(d Date) string {
	return d.Slash()
}

// Weekday names in Vietnamese, used by the current-datetime tool.
var weekdaysVN = map[time.Weekday]string{
	time.Monday:    "Thứ Hai",
	time.Tuesday:   "Thứ Ba",
	time.Wednesday: "Thứ Tư",
	time.Thursday:  "Thứ Năm",
	time.Friday:    "Thứ Sáu",
	time.Saturday:  "Thứ Bảy",
	time.Sunday:    "Chủ Nhật",
}

// WeekdayVN returns the Vietnamese name for the weekday of t in local
// time, e.g. "Thứ Hai" for Monday.
func WeekdayVN(t time.Time) string {
	return weekdaysVN[t.In(Location).Weekday()]
}
