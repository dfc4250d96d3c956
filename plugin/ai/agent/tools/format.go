package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nhatminh/trolyai/internal/googleauth"
	"github.com/nhatminh/trolyai/plugin/ai/vntime"
	"github.com/nhatminh/trolyai/server/service/calendar"
)

const (
	// untitledPlaceholder substitutes a missing event title.
	untitledPlaceholder = "Không có tiêu đề"

	// descriptionPreviewRunes caps description previews in listings.
	descriptionPreviewRunes = 100
)

// displayTitle returns the event title or the placeholder.
func displayTitle(ev *calendar.Event) string {
	if ev.Title == "" {
		return untitledPlaceholder
	}
	return ev.Title
}

// displayStart renders an event's start for multi-day listings:
// localized DD/MM/YYYY HH:MM for timed events, the verbatim date plus
// the all-day marker for date-only events.
func displayStart(ev *calendar.Event) string {
	if ev.Start.AllDay {
		return vntime.DisplayAllDay(ev.Start.Date)
	}
	return vntime.DisplayInstant(ev.Start.Instant)
}

// displayStartClock renders an event's start for single-day listings.
func displayStartClock(ev *calendar.Event) string {
	if ev.Start.AllDay {
		return vntime.AllDayLabel
	}
	return vntime.DisplayClock(ev.Start.Instant)
}

// truncateRunes shortens s to max runes, appending an ellipsis marker.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// formatEventList renders a numbered listing with title, time, and
// optional location/description.
func formatEventList(events []*calendar.Event, clockOnly bool) string {
	var b strings.Builder
	for i, ev := range events {
		timeStr := displayStart(ev)
		if clockOnly {
			timeStr = displayStartClock(ev)
		}

		fmt.Fprintf(&b, "%d. 📝 %s\n", i+1, displayTitle(ev))
		fmt.Fprintf(&b, "   ⏰ %s\n", timeStr)
		if ev.Location != "" {
			fmt.Fprintf(&b, "   📍 %s\n", ev.Location)
		}
		if ev.Description != "" {
			desc := strings.TrimSpace(strings.ReplaceAll(ev.Description, "\n", " "))
			fmt.Fprintf(&b, "   📄 %s\n", truncateRunes(desc, descriptionPreviewRunes))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// errorText converts a domain error into the user-facing Vietnamese
// message for the tool boundary. Unknown errors are reported verbatim so
// nothing is silently swallowed.
func errorText(err error) string {
	switch {
	case errors.Is(err, vntime.ErrInvalidDate):
		return fmt.Sprintf("❌ Lỗi định dạng ngày: %v", err)
	case errors.Is(err, vntime.ErrInvalidDateTime):
		return fmt.Sprintf("❌ Lỗi dữ liệu đầu vào: %v", err)
	case errors.Is(err, googleauth.ErrUnavailable):
		return fmt.Sprintf("❌ Chưa kết nối được Google Calendar: %v", err)
	case calendar.IsProviderError(err):
		return fmt.Sprintf("❌ Lỗi khi truy cập Google Calendar: %v", err)
	default:
		return fmt.Sprintf("❌ Đã xảy ra lỗi: %v", err)
	}
}
