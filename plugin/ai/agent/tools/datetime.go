package tools

import (
	"context"
	"fmt"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

// CurrentDateTimeTool reports the detailed current date and time in both
// the local timezone and UTC, so the model can resolve absolute times.
type CurrentDateTimeTool struct {
	resolver *vntime.Resolver
}

// NewCurrentDateTimeTool creates the get_current_datetime tool.
func NewCurrentDateTimeTool(resolver *vntime.Resolver) *CurrentDateTimeTool {
	return &CurrentDateTimeTool{resolver: resolver}
}

func (t *CurrentDateTimeTool) Name() string { return "get_current_datetime" }

func (t *CurrentDateTimeTool) Description() string {
	return `Lấy thông tin chi tiết về ngày giờ hiện tại theo múi giờ Việt Nam và UTC.`
}

func (t *CurrentDateTimeTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *CurrentDateTimeTool) Run(_ context.Context, _ string) (string, error) {
	now := t.resolver.Now()
	utcNow := now.UTC()
	_, week := now.ISOWeek()

	tomorrow := t.resolver.RelativeDay(1)
	yesterday := t.resolver.RelativeDay(-1)

	return fmt.Sprintf(`📅 **Thông tin thời gian hiện tại:**

🇻🇳 **Múi giờ Việt Nam (UTC+7):**
- Ngày: %s, %s
- Thời gian: %s
- Tuần: Tuần %d của năm %d
- Tháng: Tháng %d/%d

🌍 **Thời gian UTC:**
- Ngày: %s
- Thời gian: %s UTC

💡 **Ghi chú:** Thông tin này giúp bạn biết chính xác thời gian để:
- Tính toán "ngày mai" = %s
- Tính toán "hôm qua" = %s
- Xác định thời gian cho việc tạo sự kiện calendar`,
		vntime.WeekdayVN(now), now.Format("02/01/2006"),
		now.Format("15:04:05"),
		week, now.Year(),
		int(now.Month()), now.Year(),
		utcNow.Format("02/01/2006"),
		utcNow.Format("15:04:05"),
		tomorrow.Slash(),
		yesterday.Slash()), nil
}

// TodayInfoTool returns a compact structured summary of today's date.
// The system prompt instructs the model to call this first whenever a
// request uses relative dates.
type TodayInfoTool struct {
	resolver *vntime.Resolver
}

// NewTodayInfoTool creates the get_today_info tool.
func NewTodayInfoTool(resolver *vntime.Resolver) *TodayInfoTool {
	return &TodayInfoTool{resolver: resolver}
}

func (t *TodayInfoTool) Name() string { return "get_today_info" }

func (t *TodayInfoTool) Description() string {
	return `Lấy thông tin ngắn gọn về ngày hôm nay (ngày, thứ, ngày mai, hôm qua) theo múi giờ Việt Nam.
LUÔN gọi tool này đầu tiên khi cần biết ngày hiện tại hoặc xử lý "hôm nay", "ngày mai", "hôm qua".`
}

func (t *TodayInfoTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *TodayInfoTool) Run(_ context.Context, _ string) (string, error) {
	now := t.resolver.Now()
	today := t.resolver.RelativeDay(0)
	tomorrow := t.resolver.RelativeDay(1)
	yesterday := t.resolver.RelativeDay(-1)

	return fmt.Sprintf(`Today's Information:
- Date: %s (%s)
- Day: %s
- Time: %s
- Timezone: %s (UTC+7)
- Tomorrow: %s (%s)
- Yesterday: %s (%s)

Note: Use this information to understand relative dates like "today", "tomorrow", "yesterday" in user requests.`,
		today.ISO(), today.Slash(),
		vntime.WeekdayVN(now),
		now.Format("15:04:05"),
		vntime.Timezone,
		tomorrow.ISO(), tomorrow.Slash(),
		yesterday.ISO(), yesterday.Slash()), nil
}
