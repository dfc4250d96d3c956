package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhatminh/trolyai/server/service/weather"
)

// WeatherTool reports the current weather for a named place via Open-Meteo.
type WeatherTool struct {
	svc *weather.Service
}

// NewWeatherTool creates the get_current_weather tool.
func NewWeatherTool(svc *weather.Service) *WeatherTool {
	return &WeatherTool{svc: svc}
}

func (t *WeatherTool) Name() string { return "get_current_weather" }

func (t *WeatherTool) Description() string {
	return `Lấy thông tin thời tiết hiện tại của một thành phố (nhiệt độ, độ ẩm, gió, tình trạng trời).`
}

func (t *WeatherTool) InputType() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"city": stringProperty("Tên thành phố, ví dụ 'Hà Nội', 'Tokyo'"),
	}, "city")
}

func (t *WeatherTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		City string `json:"city"`
	}
	if err := unmarshalInput(inputJSON, &input); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.City) == "" {
		return "", fmt.Errorf("city is required")
	}

	report, err := t.svc.Current(ctx, input.City)
	if err != nil {
		return fmt.Sprintf("Lỗi khi lấy thông tin thời tiết: %v", err), nil
	}

	return fmt.Sprintf(`🌍 Thời tiết hiện tại tại %s, %s:
🌡️ Nhiệt độ: %.1f°C
💧 Độ ẩm: %.0f%%
💨 Tốc độ gió: %.1f km/h
☁️ Tình trạng: %s`,
		report.City, report.Country,
		report.Temperature, report.Humidity, report.WindSpeed,
		report.Description()), nil
}
