package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
	"github.com/nhatminh/trolyai/server/service/calendar"
)

type fakeCalendarService struct {
	events  []*calendar.Event
	date    vntime.Date
	err     error
	created *calendar.CreateRequest
	outcome *calendar.DeleteOutcome

	lastN     int
	lastQuery string
}

func (f *fakeCalendarService) ListUpcoming(_ context.Context, n int) ([]*calendar.Event, error) {
	f.lastN = n
	return f.events, f.err
}

func (f *fakeCalendarService) Search(_ context.Context, query string, maxResults int) ([]*calendar.Event, error) {
	f.lastQuery = query
	f.lastN = maxResults
	return f.events, f.err
}

func (f *fakeCalendarService) EventsOnDate(_ context.Context, _ string) (vntime.Date, []*calendar.Event, error) {
	return f.date, f.events, f.err
}

func (f *fakeCalendarService) Today(_ context.Context) (vntime.Date, []*calendar.Event, error) {
	return f.date, f.events, f.err
}

func (f *fakeCalendarService) Tomorrow(_ context.Context) (vntime.Date, []*calendar.Event, error) {
	return f.date, f.events, f.err
}

func (f *fakeCalendarService) Create(_ context.Context, req *calendar.CreateRequest) (*calendar.CreateResult, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.CreateResult{
		Event: &calendar.Event{ID: "new-1", Title: req.Title, HTMLLink: "https://calendar.example/new-1"},
	}, nil
}

func (f *fakeCalendarService) Delete(_ context.Context, query string) (*calendar.DeleteOutcome, error) {
	f.lastQuery = query
	return f.outcome, f.err
}

func timedEvent(title string, start time.Time) *calendar.Event {
	return &calendar.Event{
		ID:    "ev-" + title,
		Title: title,
		Start: calendar.EventStart{Instant: start},
	}
}

func TestListUpcomingTool(t *testing.T) {
	svc := &fakeCalendarService{
		events: []*calendar.Event{
			timedEvent("Họp nhóm", time.Date(2025, time.June, 30, 7, 0, 0, 0, time.UTC)),
		},
	}
	tool := NewListUpcomingTool(svc)

	out, err := tool.Run(context.Background(), `{"n": 5}`)
	require.NoError(t, err)
	assert.Equal(t, 5, svc.lastN)
	assert.Contains(t, out, "📅 1 sự kiện sắp tới:")
	assert.Contains(t, out, "📝 Họp nhóm")
	assert.Contains(t, out, "30/06/2025 14:00")
}

func TestListUpcomingToolDefaultsCount(t *testing.T) {
	svc := &fakeCalendarService{}
	tool := NewListUpcomingTool(svc)

	out, err := tool.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, defaultListCount, svc.lastN)
	assert.Equal(t, "Không có sự kiện nào sắp tới trong lịch của bạn.", out)
}

func TestSearchEventsTool(t *testing.T) {
	svc := &fakeCalendarService{
		events: []*calendar.Event{
			timedEvent("Khám răng", time.Date(2025, time.July, 1, 2, 30, 0, 0, time.UTC)),
		},
	}
	tool := NewSearchEventsTool(svc)

	out, err := tool.Run(context.Background(), `{"query": "răng"}`)
	require.NoError(t, err)
	assert.Equal(t, "răng", svc.lastQuery)
	assert.Contains(t, out, "🔍 Tìm thấy 1 sự kiện với từ khóa 'răng':")
}

func TestSearchEventsToolNoMatch(t *testing.T) {
	tool := NewSearchEventsTool(&fakeCalendarService{})

	out, err := tool.Run(context.Background(), `{"query": "xyz"}`)
	require.NoError(t, err)
	assert.Equal(t, "🔍 Không tìm thấy sự kiện nào với từ khóa 'xyz'", out)
}

func TestSearchEventsToolRequiresQuery(t *testing.T) {
	tool := NewSearchEventsTool(&fakeCalendarService{})

	_, err := tool.Run(context.Background(), `{}`)
	assert.Error(t, err)
}

func TestEventsByDateTool(t *testing.T) {
	svc := &fakeCalendarService{
		date: vntime.Date{Year: 2025, Month: time.June, Day: 30},
		events: []*calendar.Event{
			timedEvent("Họp sáng", time.Date(2025, time.June, 30, 2, 0, 0, 0, time.UTC)),
			{
				ID:    "ev-allday",
				Title: "Nghỉ lễ",
				Start: calendar.EventStart{
					AllDay: true,
					Date:   vntime.Date{Year: 2025, Month: time.June, Day: 30},
				},
			},
		},
	}
	tool := NewEventsByDateTool(svc)

	out, err := tool.Run(context.Background(), `{"date": "30/06/2025"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "📅 **Lịch trình ngày 30/06/2025** (2 sự kiện):")
	// single-day listing shows clock only for timed, label for all-day
	assert.Contains(t, out, "⏰ 09:00")
	assert.Contains(t, out, "⏰ Cả ngày")
}

func TestEventsByDateToolEmptyDay(t *testing.T) {
	svc := &fakeCalendarService{date: vntime.Date{Year: 2025, Month: time.July, Day: 1}}
	tool := NewEventsByDateTool(svc)

	out, err := tool.Run(context.Background(), `{"date": "2025-07-01"}`)
	require.NoError(t, err)
	assert.Equal(t, "📅 Không có sự kiện nào vào ngày 01/07/2025", out)
}

func TestEventsByDateToolInvalidDate(t *testing.T) {
	svc := &fakeCalendarService{err: vntime.ErrInvalidDate}
	tool := NewEventsByDateTool(svc)

	out, err := tool.Run(context.Background(), `{"date": "ngày kia"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "❌ Lỗi định dạng ngày")
}

func TestCreateEventTool(t *testing.T) {
	svc := &fakeCalendarService{}
	tool := NewCreateEventTool(svc)

	out, err := tool.Run(context.Background(), `{
		"summary": "Họp dự án",
		"start_time": "2025-06-30 14:00",
		"end_time": "2025-06-30 15:00",
		"location": "Phòng 302"
	}`)
	require.NoError(t, err)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Họp dự án", svc.created.Title)
	assert.Equal(t, "2025-06-30 14:00", svc.created.StartText)
	assert.Contains(t, out, "✅ Đã tạo sự kiện thành công!")
	assert.Contains(t, out, "📍 Địa điểm: Phòng 302")
	assert.Contains(t, out, "🔗 Link: https://calendar.example/new-1")
}

func TestCreateEventToolRequiresFields(t *testing.T) {
	svc := &fakeCalendarService{}
	tool := NewCreateEventTool(svc)

	_, err := tool.Run(context.Background(), `{"summary": "x"}`)
	assert.Error(t, err)
	assert.Nil(t, svc.created, "no service call on unusable input")
}

func TestCreateEventToolInvalidTime(t *testing.T) {
	svc := &fakeCalendarService{err: vntime.ErrInvalidDateTime}
	tool := NewCreateEventTool(svc)

	out, err := tool.Run(context.Background(), `{
		"summary": "x", "start_time": "mai", "end_time": "mốt"
	}`)
	require.NoError(t, err)
	assert.Contains(t, out, "❌ Lỗi dữ liệu đầu vào")
}

func TestDeleteEventToolFound(t *testing.T) {
	deleted := timedEvent("Họp cũ", time.Date(2025, time.July, 2, 7, 0, 0, 0, time.UTC))
	svc := &fakeCalendarService{outcome: &calendar.DeleteOutcome{Deleted: deleted, MatchCount: 3}}
	tool := NewDeleteEventTool(svc)

	out, err := tool.Run(context.Background(), `{"summary": "Họp cũ"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Đã xóa sự kiện thành công!")
	assert.Contains(t, out, "📝 Tiêu đề: Họp cũ")
	assert.Contains(t, out, "⚠️ Lưu ý: Tìm thấy 3 sự kiện tương tự, đã xóa sự kiện đầu tiên.")
}

func TestDeleteEventToolNotFound(t *testing.T) {
	svc := &fakeCalendarService{outcome: &calendar.DeleteOutcome{MatchCount: 0}}
	tool := NewDeleteEventTool(svc)

	out, err := tool.Run(context.Background(), `{"summary": "không có"}`)
	require.NoError(t, err)
	assert.Equal(t, "❌ Không tìm thấy sự kiện nào với tiêu đề 'không có'", out)
}

func TestDeleteEventToolSingleMatchNoWarning(t *testing.T) {
	deleted := timedEvent("Duy nhất", time.Date(2025, time.July, 2, 7, 0, 0, 0, time.UTC))
	svc := &fakeCalendarService{outcome: &calendar.DeleteOutcome{Deleted: deleted, MatchCount: 1}}
	tool := NewDeleteEventTool(svc)

	out, err := tool.Run(context.Background(), `{"summary": "Duy nhất"}`)
	require.NoError(t, err)
	assert.NotContains(t, out, "⚠️")
}
