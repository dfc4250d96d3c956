package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

func newTestGoogleProvider() *GoogleProvider {
	resolver := vntime.NewResolverAt(func() time.Time { return testNow })
	return &GoogleProvider{resolver: resolver, calendarID: DefaultCalendarID}
}

func TestToAPITime(t *testing.T) {
	p := newTestGoogleProvider()

	t.Run("timed converts local to UTC", func(t *testing.T) {
		clock := vntime.Clock{Hour: 14, Minute: 0}
		got := p.toAPITime(vntime.Stamp{
			Date:  vntime.Date{Year: 2025, Month: time.June, Day: 30},
			Clock: &clock,
		})
		assert.Equal(t, "2025-06-30T07:00:00Z", got.DateTime)
		assert.Equal(t, "UTC", got.TimeZone)
		assert.Empty(t, got.Date)
	})

	t.Run("all-day keeps bare date", func(t *testing.T) {
		got := p.toAPITime(vntime.Stamp{
			Date: vntime.Date{Year: 2025, Month: time.June, Day: 30},
		})
		assert.Equal(t, "2025-06-30", got.Date)
		assert.Empty(t, got.DateTime)
		assert.Empty(t, got.TimeZone)
	})
}

func TestFromAPI(t *testing.T) {
	p := newTestGoogleProvider()

	t.Run("timed event", func(t *testing.T) {
		ev, err := p.fromAPI(&gcal.Event{
			Id:      "e1",
			Summary: "Họp nhóm",
			Start:   &gcal.EventDateTime{DateTime: "2025-06-30T07:00:00Z"},
		})
		require.NoError(t, err)
		assert.False(t, ev.Start.AllDay)
		assert.Equal(t, time.Date(2025, time.June, 30, 7, 0, 0, 0, time.UTC), ev.Start.Instant)
	})

	t.Run("offset timestamps are normalized to UTC", func(t *testing.T) {
		ev, err := p.fromAPI(&gcal.Event{
			Id:    "e2",
			Start: &gcal.EventDateTime{DateTime: "2025-06-30T14:00:00+07:00"},
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 30, 7, 0, 0, 0, time.UTC), ev.Start.Instant)
	})

	t.Run("all-day event keeps date verbatim", func(t *testing.T) {
		ev, err := p.fromAPI(&gcal.Event{
			Id:    "e3",
			Start: &gcal.EventDateTime{Date: "2025-06-30"},
		})
		require.NoError(t, err)
		assert.True(t, ev.Start.AllDay)
		assert.Equal(t, "2025-06-30", ev.Start.Date.ISO())
	})

	t.Run("missing start is a data error", func(t *testing.T) {
		_, err := p.fromAPI(&gcal.Event{Id: "e4"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing start")

		_, err = p.fromAPI(&gcal.Event{Id: "e5", Start: &gcal.EventDateTime{}})
		require.Error(t, err)
	})
}
