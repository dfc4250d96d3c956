package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
	"github.com/nhatminh/trolyai/server/service/calendar"
)

const defaultListCount = 10

// ListUpcomingTool lists the next n events from the calendar.
type ListUpcomingTool struct {
	svc calendar.Service
}

// NewListUpcomingTool creates the list_upcoming_events tool.
func NewListUpcomingTool(svc calendar.Service) *ListUpcomingTool {
	return &ListUpcomingTool{svc: svc}
}

func (t *ListUpcomingTool) Name() string { return "list_upcoming_events" }

func (t *ListUpcomingTool) Description() string {
	return `Liệt kê n sự kiện sắp tới từ Google Calendar (mặc định 10, tối đa 50).`
}

func (t *ListUpcomingTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"n": integerProperty("Số lượng sự kiện muốn lấy (mặc định 10, tối đa 50)"),
	})
}

func (t *ListUpcomingTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		N int `json:"n"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if input.N == 0 {
		input.N = defaultListCount
	}

	events, err := t.svc.ListUpcoming(ctx, input.N)
	if err != nil {
		return errorText(err), nil
	}
	if len(events) == 0 {
		return "Không có sự kiện nào sắp tới trong lịch của bạn.", nil
	}

	return fmt.Sprintf("📅 %d sự kiện sắp tới:\n\n%s", len(events), formatEventList(events, false)), nil
}

// SearchEventsTool searches calendar events by free text.
type SearchEventsTool struct {
	svc calendar.Service
}

// NewSearchEventsTool creates the search_calendar_events tool.
func NewSearchEventsTool(svc calendar.Service) *SearchEventsTool {
	return &SearchEventsTool{svc: svc}
}

func (t *SearchEventsTool) Name() string { return "search_calendar_events" }

func (t *SearchEventsTool) Description() string {
	return `Tìm kiếm sự kiện trong Google Calendar theo từ khóa (có thể trả về cả sự kiện đã qua).`
}

func (t *SearchEventsTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"query":       stringProperty("Từ khóa tìm kiếm"),
		"max_results": integerProperty("Số lượng kết quả tối đa (mặc định 10, tối đa 50)"),
	}, "query")
}

func (t *SearchEventsTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}
	if input.MaxResults == 0 {
		input.MaxResults = defaultListCount
	}

	events, err := t.svc.Search(ctx, input.Query, input.MaxResults)
	if err != nil {
		return errorText(err), nil
	}
	if len(events) == 0 {
		return fmt.Sprintf("🔍 Không tìm thấy sự kiện nào với từ khóa '%s'", input.Query), nil
	}

	return fmt.Sprintf("🔍 Tìm thấy %d sự kiện với từ khóa '%s':\n\n%s",
		len(events), input.Query, formatEventList(events, false)), nil
}

// EventsByDateTool lists all events on one local calendar day.
type EventsByDateTool struct {
	svc calendar.Service
}

// NewEventsByDateTool creates the get_events_by_date tool.
func NewEventsByDateTool(svc calendar.Service) *EventsByDateTool {
	return &EventsByDateTool{svc: svc}
}

func (t *EventsByDateTool) Name() string { return "get_events_by_date" }

func (t *EventsByDateTool) Description() string {
	return `Lấy tất cả sự kiện trong một ngày cụ thể. Ngày theo định dạng 'YYYY-MM-DD' hoặc 'DD/MM/YYYY'.`
}

func (t *EventsByDateTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"date": stringProperty("Ngày cần tìm kiếm ('YYYY-MM-DD' hoặc 'DD/MM/YYYY')"),
	}, "date")
}

func (t *EventsByDateTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Date string `json:"date"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Date) == "" {
		return "", fmt.Errorf("date is required")
	}

	date, events, err := t.svc.EventsOnDate(ctx, input.Date)
	if err != nil {
		return errorText(err), nil
	}
	return formatDaySchedule(date, events), nil
}

// formatDaySchedule renders a single-day listing; an empty day is a
// normal outcome, not an error.
func formatDaySchedule(date vntime.Date, events []*calendar.Event) string {
	if len(events) == 0 {
		return fmt.Sprintf("📅 Không có sự kiện nào vào ngày %s", vntime.DisplayDate(date))
	}
	return fmt.Sprintf("📅 **Lịch trình ngày %s** (%d sự kiện):\n\n%s",
		vntime.DisplayDate(date), len(events), formatEventList(events, true))
}

// TodayEventsTool lists today's events using the fixed local timezone.
type TodayEventsTool struct {
	svc calendar.Service
}

// NewTodayEventsTool creates the get_today_events tool.
func NewTodayEventsTool(svc calendar.Service) *TodayEventsTool {
	return &TodayEventsTool{svc: svc}
}

func (t *TodayEventsTool) Name() string { return "get_today_events" }

func (t *TodayEventsTool) Description() string {
	return `Lấy tất cả sự kiện của hôm nay (tự động tính theo múi giờ Việt Nam).`
}

func (t *TodayEventsTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *TodayEventsTool) Run(ctx context.Context, _ string) (string, error) {
	date, events, err := t.svc.Today(ctx)
	if err != nil {
		return errorText(err), nil
	}
	return formatDaySchedule(date, events), nil
}

// TomorrowEventsTool lists tomorrow's events.
type TomorrowEventsTool struct {
	svc calendar.Service
}

// NewTomorrowEventsTool creates the get_tomorrow_events tool.
func NewTomorrowEventsTool(svc calendar.Service) *TomorrowEventsTool {
	return &TomorrowEventsTool{svc: svc}
}

func (t *TomorrowEventsTool) Name() string { return "get_tomorrow_events" }

func (t *TomorrowEventsTool) Description() string {
	return `Lấy tất cả sự kiện của ngày mai (tự động tính theo múi giờ Việt Nam).`
}

func (t *TomorrowEventsTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *TomorrowEventsTool) Run(ctx context.Context, _ string) (string, error) {
	date, events, err := t.svc.Tomorrow(ctx)
	if err != nil {
		return errorText(err), nil
	}
	return formatDaySchedule(date, events), nil
}

// CreateEventTool creates a new calendar event.
type CreateEventTool struct {
	svc calendar.Service
}

// NewCreateEventTool creates the create_calendar_event tool.
func NewCreateEventTool(svc calendar.Service) *CreateEventTool {
	return &CreateEventTool{svc: svc}
}

func (t *CreateEventTool) Name() string { return "create_calendar_event" }

func (t *CreateEventTool) Description() string {
	return `Tạo một sự kiện mới trong Google Calendar.
Thời gian theo định dạng 'YYYY-MM-DD HH:MM' (giờ địa phương) hoặc 'YYYY-MM-DD' (sự kiện cả ngày).`
}

func (t *CreateEventTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"summary":     stringProperty("Tiêu đề của sự kiện"),
		"start_time":  stringProperty("Thời gian bắt đầu ('YYYY-MM-DD HH:MM' hoặc 'YYYY-MM-DD')"),
		"end_time":    stringProperty("Thời gian kết thúc ('YYYY-MM-DD HH:MM' hoặc 'YYYY-MM-DD')"),
		"description": stringProperty("Mô tả chi tiết của sự kiện (tùy chọn)"),
		"location":    stringProperty("Địa điểm tổ chức sự kiện (tùy chọn)"),
	}, "summary", "start_time", "end_time")
}

func (t *CreateEventTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Summary     string `json:"summary"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if input.Summary == "" {
		return "", fmt.Errorf("summary is required")
	}
	if input.StartTime == "" || input.EndTime == "" {
		return "", fmt.Errorf("start_time and end_time are required")
	}

	res, err := t.svc.Create(ctx, &calendar.CreateRequest{
		Title:       input.Summary,
		StartText:   input.StartTime,
		EndText:     input.EndTime,
		Description: input.Description,
		Location:    input.Location,
	})
	if err != nil {
		return errorText(err), nil
	}

	slog.Info("event created via tool",
		"tool", t.Name(),
		"event_id", res.Event.ID,
		"title", truncateRunes(input.Summary, 50))

	var b strings.Builder
	b.WriteString("✅ Đã tạo sự kiện thành công!\n\n")
	fmt.Fprintf(&b, "📝 Tiêu đề: %s\n", input.Summary)
	fmt.Fprintf(&b, "⏰ Bắt đầu: %s\n", input.StartTime)
	fmt.Fprintf(&b, "⏰ Kết thúc: %s\n", input.EndTime)
	if input.Location != "" {
		fmt.Fprintf(&b, "📍 Địa điểm: %s\n", input.Location)
	}
	if input.Description != "" {
		fmt.Fprintf(&b, "📄 Mô tả: %s\n", input.Description)
	}

	link := res.Event.HTMLLink
	if link == "" {
		link = "Không có"
	}
	fmt.Fprintf(&b, "\n🔗 Link: %s", link)
	return b.String(), nil
}

// DeleteEventTool deletes the first upcoming event matching a title query.
type DeleteEventTool struct {
	svc calendar.Service
}

// NewDeleteEventTool creates the delete_calendar_event tool.
func NewDeleteEventTool(svc calendar.Service) *DeleteEventTool {
	return &DeleteEventTool{svc: svc}
}

func (t *DeleteEventTool) Name() string { return "delete_calendar_event" }

func (t *DeleteEventTool) Description() string {
	return `Xóa sự kiện khỏi Google Calendar dựa trên tiêu đề.
Nếu nhiều sự kiện trùng khớp, chỉ sự kiện đầu tiên (gần nhất) bị xóa.`
}

func (t *DeleteEventTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"summary": stringProperty("Tiêu đề của sự kiện cần xóa"),
	}, "summary")
}

func (t *DeleteEventTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Summary string `json:"summary"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Summary) == "" {
		return "", fmt.Errorf("summary is required")
	}

	out, err := t.svc.Delete(ctx, input.Summary)
	if err != nil {
		return errorText(err), nil
	}
	if out.Deleted == nil {
		return fmt.Sprintf("❌ Không tìm thấy sự kiện nào với tiêu đề '%s'", input.Summary), nil
	}

	slog.Info("event deleted via tool",
		"tool", t.Name(),
		"event_id", out.Deleted.ID,
		"match_count", out.MatchCount)

	var b strings.Builder
	b.WriteString("✅ Đã xóa sự kiện thành công!\n\n")
	fmt.Fprintf(&b, "📝 Tiêu đề: %s\n", displayTitle(out.Deleted))
	fmt.Fprintf(&b, "⏰ Thời gian: %s\n", displayStart(out.Deleted))
	if out.MatchCount > 1 {
		fmt.Fprintf(&b, "\n⚠️ Lưu ý: Tìm thấy %d sự kiện tương tự, đã xóa sự kiện đầu tiên.", out.MatchCount)
	}
	return b.String(), nil
}

// unmarshalInput parses a tool's JSON input. An empty input is treated as
// an empty object so no-argument tools accept "".
func unmarshalInput(inputJSON string, out any) error {
	if strings.TrimSpace(inputJSON) == "" {
		inputJSON = "{}"
	}
	if err := json.Unmarshal([]byte(inputJSON), out); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	return nil
}
