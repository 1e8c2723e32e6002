// Package weather fetches a destination forecast from an OpenWeather-style
// API: a geocoding lookup, then current conditions plus a 3-hourly forecast,
// condensed into the compact report the trip dashboard shows. Provider
// failures degrade to an unavailable report instead of an error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minhng/tripfund/internal/cache"
)

const reportCacheTTL = 5 * time.Minute

// Report is the dashboard weather payload. Available is false when the
// provider could not be reached; the rest of the fields are then zero.
type Report struct {
	Available bool       `json:"available"`
	Current   Conditions `json:"current"`
	Hourly    []Hour     `json:"hourly"`
	Daily     []Day      `json:"daily"`
}

// Conditions describes the weather at one moment.
type Conditions struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}

// Hour is one entry of the short-term forecast.
type Hour struct {
	Time      string `json:"time"`
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// Day is one entry of the two-day outlook.
type Day struct {
	Date      string `json:"date"`
	DayName   string `json:"day_name"`
	High      int    `json:"high"`
	Low       int    `json:"low"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// Client talks to the weather provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *cache.Cache
}

// New creates a weather client. baseURL points at the provider root; override
// it in tests with an httptest server.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		cache:   cache.New(),
	}
}

type geoResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []weatherEntry `json:"list"`
	City struct {
		Timezone int `json:"timezone"` // seconds east of UTC
	} `json:"city"`
}

// Get returns the weather report for a destination. Results are cached for a
// few minutes; all failures return an unavailable report.
func (c *Client) Get(ctx context.Context, destination string) Report {
	cacheKey := "weather_" + destination
	if raw, ok := c.cache.Get(cacheKey); ok {
		var cached Report
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	report, err := c.fetch(ctx, destination)
	if err != nil {
		slog.Warn("weather lookup failed", "destination", destination, "error", err)
		return Report{}
	}

	if raw, err := json.Marshal(report); err == nil {
		c.cache.Set(cacheKey, raw, reportCacheTTL)
	}
	return report
}

func (c *Client) fetch(ctx context.Context, destination string) (Report, error) {
	var locations []geoResult
	geoURL := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.baseURL, url.QueryEscape(destination), c.apiKey)
	if err := c.getJSON(ctx, geoURL, &locations); err != nil {
		return Report{}, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(locations) == 0 {
		return Report{}, fmt.Errorf("no location found for %q", destination)
	}
	loc := locations[0]

	var current weatherEntry
	currentURL := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&units=metric&appid=%s",
		c.baseURL, loc.Lat, loc.Lon, c.apiKey)
	if err := c.getJSON(ctx, currentURL, &current); err != nil {
		return Report{}, fmt.Errorf("current conditions failed: %w", err)
	}

	var forecast forecastResponse
	forecastURL := fmt.Sprintf("%s/data/2.5/forecast?lat=%f&lon=%f&units=metric&appid=%s",
		c.baseURL, loc.Lat, loc.Lon, c.apiKey)
	if err := c.getJSON(ctx, forecastURL, &forecast); err != nil {
		return Report{}, fmt.Errorf("forecast failed: %w", err)
	}

	return buildReport(current, forecast), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func buildReport(current weatherEntry, forecast forecastResponse) Report {
	tz := time.FixedZone("local", forecast.City.Timezone)

	report := Report{
		Available: true,
		Current:   toConditions(current),
	}

	// The 3-hourly list covers the next few days; the first four entries are
	// roughly the next 12 hours.
	for i, entry := range forecast.List {
		if i >= 4 {
			break
		}
		report.Hourly = append(report.Hourly, Hour{
			Time:      time.Unix(entry.Dt, 0).In(tz).Format("15:04"),
			Temp:      int(entry.Main.Temp + 0.5),
			Condition: condition(entry),
			Icon:      icon(entry),
		})
	}

	report.Daily = dailyOutlook(forecast.List, tz)
	return report
}

// dailyOutlook condenses the 3-hourly forecast into per-day highs and lows
// for the two days after today.
func dailyOutlook(entries []weatherEntry, tz *time.Location) []Day {
	type bucket struct {
		day        time.Time
		high, low  float64
		entry      weatherEntry
		hasMidday  bool
		hasEntries bool
	}

	var today string
	if len(entries) > 0 {
		today = time.Unix(entries[0].Dt, 0).In(tz).Format("2006-01-02")
	}

	byDay := map[string]*bucket{}
	var order []string
	for _, entry := range entries {
		at := time.Unix(entry.Dt, 0).In(tz)
		key := at.Format("2006-01-02")
		if key == today {
			continue
		}
		b, ok := byDay[key]
		if !ok {
			b = &bucket{day: at, high: entry.Main.TempMax, low: entry.Main.TempMin, entry: entry}
			byDay[key] = b
			order = append(order, key)
		}
		b.hasEntries = true
		if entry.Main.TempMax > b.high {
			b.high = entry.Main.TempMax
		}
		if entry.Main.TempMin < b.low {
			b.low = entry.Main.TempMin
		}
		// Prefer the midday entry as the day's representative condition.
		if h := at.Hour(); h >= 12 && h < 15 && !b.hasMidday {
			b.entry = entry
			b.hasMidday = true
		}
	}

	var days []Day
	for _, key := range order {
		if len(days) >= 2 {
			break
		}
		b := byDay[key]
		days = append(days, Day{
			Date:      b.day.Format("02/01"),
			DayName:   b.day.Format("Mon"),
			High:      int(b.high + 0.5),
			Low:       int(b.low + 0.5),
			Condition: condition(b.entry),
			Icon:      icon(b.entry),
		})
	}
	return days
}

func toConditions(entry weatherEntry) Conditions {
	return Conditions{
		Temperature: int(entry.Main.Temp + 0.5),
		Condition:   condition(entry),
		Icon:        icon(entry),
	}
}

func condition(entry weatherEntry) string {
	if len(entry.Weather) == 0 {
		return ""
	}
	return entry.Weather[0].Main
}

// icon maps provider icon codes to the emoji the dashboard renders.
func icon(entry weatherEntry) string {
	if len(entry.Weather) == 0 {
		return "☁️"
	}
	code := entry.Weather[0].Icon
	if len(code) >= 2 {
		code = code[:2]
	}
	switch code {
	case "01":
		return "☀️"
	case "02":
		return "⛅"
	case "03", "04":
		return "☁️"
	case "09":
		return "🌦️"
	case "10", "11":
		return "🌧️"
	case "13":
		return "❄️"
	case "50":
		return "🌫️"
	default:
		return "☁️"
	}
}
