// Package weather fetches current conditions from Open-Meteo: one
// geocoding lookup to resolve the place name, one forecast call for the
// current block. No caching, no retries.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Base URLs are fields so tests can point the service at a local server.
const (
	defaultGeocodingBaseURL = "https://geocoding-api.open-meteo.com"
	defaultForecastBaseURL  = "https://api.open-meteo.com"
)

// weatherCodeDesc maps WMO weather codes to Vietnamese descriptions.
var weatherCodeDesc = map[int]string{
	0:  "Trời quang đãng",
	1:  "Phần lớn quang đãng",
	2:  "Có mây một phần",
	3:  "U ám",
	45: "Sương mù",
	48: "Sương mù đóng băng",
	51: "Mưa phùn nhẹ",
	53: "Mưa phùn vừa",
	55: "Mưa phùn nặng",
	61: "Mưa nhẹ",
	63: "Mưa vừa",
	65: "Mưa to",
	80: "Mưa rào nhẹ",
	81: "Mưa rào vừa",
	82: "Mưa rào to",
}

// UnknownDescription is returned for unmapped weather codes.
const UnknownDescription = "Không xác định"

// Describe returns the Vietnamese description for a WMO weather code.
func Describe(code int) string {
	if desc, ok := weatherCodeDesc[code]; ok {
		return desc
	}
	return UnknownDescription
}

// Report is the current-conditions view for one resolved place.
type Report struct {
	City        string
	Country     string
	Temperature float64 // °C
	Humidity    float64 // %
	WindSpeed   float64 // km/h
	Code        int
}

// Description returns the human-readable condition for the report's code.
func (r *Report) Description() string {
	return Describe(r.Code)
}

// Service is the Open-Meteo client.
type Service struct {
	client           *http.Client
	geocodingBaseURL string
	forecastBaseURL  string
}

// NewService creates a weather service with a 10-second HTTP timeout.
func NewService() *Service {
	return &Service{
		client:           &http.Client{Timeout: 10 * time.Second},
		geocodingBaseURL: defaultGeocodingBaseURL,
		forecastBaseURL:  defaultForecastBaseURL,
	}
}

// Current geocodes the place name and fetches its current conditions.
func (s *Service) Current(ctx context.Context, place string) (*Report, error) {
	lat, lon, city, country, err := s.geocode(ctx, place)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m&timezone=auto",
		s.forecastBaseURL, lat, lon)

	var result struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}
	if err := s.getJSON(ctx, apiURL, &result); err != nil {
		return nil, fmt.Errorf("weather lookup for %q: %w", place, err)
	}

	return &Report{
		City:        city,
		Country:     country,
		Temperature: result.Current.Temperature,
		Humidity:    result.Current.Humidity,
		WindSpeed:   result.Current.WindSpeed,
		Code:        result.Current.WeatherCode,
	}, nil
}

// geocode resolves a place name to the first-ranked result.
func (s *Service) geocode(ctx context.Context, place string) (lat, lon float64, city, country string, err error) {
	apiURL := s.geocodingBaseURL + "/v1/search?name=" + url.QueryEscape(place) + "&count=1&language=en&format=json"

	var result struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
			Country   string  `json:"country"`
		} `json:"results"`
	}
	if err := s.getJSON(ctx, apiURL, &result); err != nil {
		return 0, 0, "", "", fmt.Errorf("geocoding %q: %w", place, err)
	}
	if len(result.Results) == 0 {
		return 0, 0, "", "", fmt.Errorf("không thể tìm thấy thông tin về địa điểm: %s", place)
	}

	r := result.Results[0]
	return r.Latitude, r.Longitude, r.Name, r.Country, nil
}

func (s *Service) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
