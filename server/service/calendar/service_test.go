package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

// fakeProvider records the queries it receives and serves canned events.
type fakeProvider struct {
	events []*Event

	lastList    *ListQuery
	inserted    []*Draft
	deletedIDs  []string
	listErr     error
	insertErr   error
	deleteErr   error
	insertedOut *Event
}

func (f *fakeProvider) ListEvents(ctx context.Context, q ListQuery) ([]*Event, error) {
	f.lastList = &q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeProvider) InsertEvent(ctx context.Context, draft *Draft) (*Event, error) {
	f.inserted = append(f.inserted, draft)
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.insertedOut != nil {
		return f.insertedOut, nil
	}
	return &Event{ID: "created-id", Title: draft.Title, HTMLLink: "https://calendar/created-id"}, nil
}

func (f *fakeProvider) DeleteEvent(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

// testNow is 2025-06-30 10:00 local (03:00 UTC).
var testNow = time.Date(2025, time.June, 30, 3, 0, 0, 0, time.UTC)

func newTestService(p Provider) Service {
	resolver := vntime.NewResolverAt(func() time.Time { return testNow })
	return NewService(p, resolver)
}

func timedEvent(id, title string, start time.Time) *Event {
	return &Event{ID: id, Title: title, Start: EventStart{Instant: start}}
}

func TestListUpcomingClamping(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int64
	}{
		{"zero behaves as one", 0, 1},
		{"negative behaves as one", -5, 1},
		{"in range", 10, 10},
		{"above max behaves as max", 1000, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{}
			svc := newTestService(p)

			_, err := svc.ListUpcoming(context.Background(), tt.n)
			require.NoError(t, err)
			require.NotNil(t, p.lastList)
			assert.Equal(t, tt.want, p.lastList.MaxResults)

			// Lower bound is now (UTC), no upper bound.
			require.NotNil(t, p.lastList.TimeMin)
			assert.Equal(t, testNow, p.lastList.TimeMin.UTC())
			assert.Nil(t, p.lastList.TimeMax)
		})
	}
}

func TestSearchHasNoLowerBound(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	_, err := svc.Search(context.Background(), "standup", 200)
	require.NoError(t, err)
	assert.Nil(t, p.lastList.TimeMin)
	assert.Nil(t, p.lastList.TimeMax)
	assert.Equal(t, "standup", p.lastList.Query)
	assert.Equal(t, int64(50), p.lastList.MaxResults)
}

func TestEventsOnDateWindow(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	date, _, err := svc.EventsOnDate(context.Background(), "30/06/2025")
	require.NoError(t, err)
	assert.Equal(t, vntime.Date{Year: 2025, Month: time.June, Day: 30}, date)

	require.NotNil(t, p.lastList.TimeMin)
	require.NotNil(t, p.lastList.TimeMax)
	assert.Equal(t, time.Date(2025, time.June, 29, 17, 0, 0, 0, time.UTC), p.lastList.TimeMin.UTC())
	assert.Equal(t, 86399999*time.Millisecond, p.lastList.TimeMax.Sub(*p.lastList.TimeMin))
	assert.Equal(t, int64(50), p.lastList.MaxResults)
}

func TestEventsOnDateInvalidInput(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	_, _, err := svc.EventsOnDate(context.Background(), "not-a-date")
	require.Error(t, err)
	assert.True(t, errors.Is(err, vntime.ErrInvalidDate))
	// Input failure reaches no provider call.
	assert.Nil(t, p.lastList)
}

func TestEventsOnDateEmptyIsSuccess(t *testing.T) {
	p := &fakeProvider{events: []*Event{}}
	svc := newTestService(p)

	_, events, err := svc.EventsOnDate(context.Background(), "2025-06-30")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTodayAndTomorrow(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	today, _, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, vntime.Date{Year: 2025, Month: time.June, Day: 30}, today)

	tomorrow, _, err := svc.Tomorrow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, vntime.Date{Year: 2025, Month: time.July, Day: 1}, tomorrow)
}

func TestCreateTimedEvent(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	res, err := svc.Create(context.Background(), &CreateRequest{
		Title:     "Họp nhóm",
		StartText: "2025-06-30 14:00",
		EndText:   "2025-06-30 15:00",
	})
	require.NoError(t, err)
	assert.False(t, res.AllDay)

	require.Len(t, p.inserted, 1)
	draft := p.inserted[0]
	require.False(t, draft.Start.AllDay())

	// 14:00 local is 07:00 UTC.
	resolver := vntime.NewResolverAt(func() time.Time { return testNow })
	start, ok := resolver.InstantUTC(draft.Start)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.June, 30, 7, 0, 0, 0, time.UTC), start)
}

func TestCreateAllDayEvent(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	res, err := svc.Create(context.Background(), &CreateRequest{
		Title:     "Nghỉ lễ",
		StartText: "2025-06-30",
		EndText:   "2025-07-01",
	})
	require.NoError(t, err)
	assert.True(t, res.AllDay)

	require.Len(t, p.inserted, 1)
	draft := p.inserted[0]
	assert.True(t, draft.Start.AllDay())
	assert.True(t, draft.End.AllDay())
	assert.Equal(t, "2025-06-30", draft.Start.Date.ISO())
	assert.Equal(t, "2025-07-01", draft.End.Date.ISO())
}

func TestCreateFailsFastOnBadInput(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	_, err := svc.Create(context.Background(), &CreateRequest{
		Title:     "Họp",
		StartText: "2025-06-30 14:00",
		EndText:   "khi nào cũng được",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, vntime.ErrInvalidDateTime))
	// No partial mutation.
	assert.Empty(t, p.inserted)
}

func TestDeleteNotFound(t *testing.T) {
	p := &fakeProvider{events: []*Event{}}
	svc := newTestService(p)

	out, err := svc.Delete(context.Background(), "standup")
	require.NoError(t, err)
	assert.Nil(t, out.Deleted)
	assert.Equal(t, 0, out.MatchCount)
	// No delete call was issued.
	assert.Empty(t, p.deletedIDs)
}

func TestDeleteFirstOfMany(t *testing.T) {
	p := &fakeProvider{events: []*Event{
		timedEvent("a", "standup", testNow.Add(1*time.Hour)),
		timedEvent("b", "standup prep", testNow.Add(2*time.Hour)),
		timedEvent("c", "standup retro", testNow.Add(3*time.Hour)),
	}}
	svc := newTestService(p)

	out, err := svc.Delete(context.Background(), "standup")
	require.NoError(t, err)
	require.NotNil(t, out.Deleted)
	assert.Equal(t, "a", out.Deleted.ID)
	assert.Equal(t, 3, out.MatchCount)
	assert.Equal(t, []string{"a"}, p.deletedIDs)

	// The candidate search is bounded below by now and filtered by title.
	require.NotNil(t, p.lastList.TimeMin)
	assert.Equal(t, "standup", p.lastList.Query)
	assert.Equal(t, int64(50), p.lastList.MaxResults)
}

func TestProviderErrorPassesThrough(t *testing.T) {
	p := &fakeProvider{listErr: &ProviderError{Op: "list events", Err: errors.New("backend unavailable")}}
	svc := newTestService(p)

	_, err := svc.ListUpcoming(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Contains(t, err.Error(), "backend unavailable")
}
