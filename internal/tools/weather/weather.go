// Package weather implements the weather tool executor (C2): open
// geocoding lookup followed by a current-weather fetch, mapping the
// numeric weather code to a fixed human description (spec.md §4.2).
//
// Grounded on internal/tools/websearch's HTTPDoer seam for outbound
// HTTP, generalized to a two-call (geocode, then forecast) sequence
// against the Open-Meteo APIs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

const (
	geocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	forecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// HTTPDoer is the seam over the outbound HTTP client so tests can
// supply a fake transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Tool implements the "weather" tool executor.
type Tool struct {
	Runtime *config.Runtime
	Client  HTTPDoer
}

func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt, Client: http.DefaultClient}
}

func (t *Tool) Name() string        { return "weather" }
func (t *Tool) Description() string { return "Get the current weather for a named location." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"location": {"type": "string"}
		},
		"required": ["location"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsWeatherEnabled()
}

type params struct {
	Location string `json:"location"`
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	if strings.TrimSpace(p.Location) == "" {
		return agentstate.Fail(agentstate.FailureValidation, "location is required"), nil
	}

	geo, err := t.geocode(ctx, p.Location)
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, "weather lookup failed: "+err.Error()), nil
	}
	if len(geo.Results) == 0 {
		return agentstate.Fail(agentstate.FailureNotFound, "no location found for: "+p.Location), nil
	}
	place := geo.Results[0]

	fc, err := t.forecast(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, "weather lookup failed: "+err.Error()), nil
	}

	description := describeCode(fc.CurrentWeather.WeatherCode)
	output := fmt.Sprintf("%s, %s: %.1f°C, %s", place.Name, place.Country, fc.CurrentWeather.Temperature, description)
	data := map[string]any{
		"location":     place.Name,
		"country":      place.Country,
		"latitude":     place.Latitude,
		"longitude":    place.Longitude,
		"temperature":  fc.CurrentWeather.Temperature,
		"wind_speed":   fc.CurrentWeather.WindSpeed,
		"weather_code": fc.CurrentWeather.WeatherCode,
		"description":  description,
	}
	return agentstate.Ok(output, data), nil
}

func (t *Tool) geocode(ctx context.Context, location string) (*geocodeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodingURL, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("name", location)
	q.Set("count", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Tool) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, forecastURL, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lon))
	q.Set("current_weather", "true")
	req.URL.RawQuery = q.Encode()

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// describeCode maps a WMO weather code to a fixed human description
// (spec.md §4.2).
func describeCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code == 66 || code == 67:
		return "Freezing rain"
	case code >= 71 && code <= 75:
		return "Snow"
	case code == 77:
		return "Snow grains"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code == 95:
		return "Thunderstorm"
	case code == 96 || code == 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}
