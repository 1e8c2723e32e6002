// Package suggest generates itinerary and packing suggestions through a
// Gemini-style generateContent endpoint. Responses are schema-constrained
// JSON; every failure degrades to static placeholder suggestions so the
// planning UI never blocks on the provider.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/minhng/tripfund/internal/cache"
)

const (
	timelineCacheTTL = 30 * time.Minute
	packingCacheTTL  = 60 * time.Minute
)

// TimelineSuggestion is one proposed itinerary activity.
type TimelineSuggestion struct {
	Day         int    `json:"day"`
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// PackingSuggestion is one proposed packing-list item.
type PackingSuggestion struct {
	Item string `json:"item"`
}

// Client calls the suggestion provider. A nil APIKey still works: every call
// returns placeholders.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	cache   *cache.Cache
}

// New creates a suggestion client. baseURL points at the provider root (no
// trailing slash needed); override it in tests with an httptest server.
func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		cache:   cache.New(),
	}
}

// generateContent request/response wire types, trimmed to what we use.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var timelineSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"day": {"type": "INTEGER"},
			"time": {"type": "STRING"},
			"activity": {"type": "STRING"},
			"description": {"type": "STRING"},
			"location": {"type": "STRING"}
		},
		"required": ["day", "time", "activity", "description"]
	}
}`)

var packingSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"item": {"type": "STRING"}
		},
		"required": ["item"]
	}
}`)

// SuggestTimeline proposes activities for a trip. When targetDay > 0 only that
// day is planned; otherwise the whole trip. Results are cached per query.
func (c *Client) SuggestTimeline(ctx context.Context, destination string, days int, interests string, targetDay int) []TimelineSuggestion {
	dayKey := "all"
	if targetDay > 0 {
		dayKey = fmt.Sprint(targetDay)
	}
	cacheKey := fmt.Sprintf("timeline_%s_%d_%s_%s", destination, days, interests, dayKey)
	if raw, ok := c.cache.Get(cacheKey); ok {
		var cached []TimelineSuggestion
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	var prompt string
	if targetDay > 0 {
		prompt = fmt.Sprintf(
			"Create a detailed itinerary for DAY %d of a %d-day trip to %s. The travelers' interests are: %s. Plan 3-5 activities for this day with specific locations and sensible times.",
			targetDay, days, destination, interests)
	} else {
		prompt = fmt.Sprintf(
			"Create a detailed travel itinerary for a %d-day trip to %s. The travelers' interests are: %s. Include specific locations and activities with sensible times for each day.",
			days, destination, interests)
	}

	var suggestions []TimelineSuggestion
	if err := c.generate(ctx, prompt, timelineSchema, &suggestions); err != nil {
		slog.Warn("timeline suggestion failed, using placeholders", "destination", destination, "error", err)
		return placeholderTimeline(targetDay)
	}
	if len(suggestions) == 0 {
		return placeholderTimeline(targetDay)
	}

	if raw, err := json.Marshal(suggestions); err == nil {
		c.cache.Set(cacheKey, raw, timelineCacheTTL)
	}
	return suggestions
}

// SuggestPacking proposes packing-list items for a trip.
func (c *Client) SuggestPacking(ctx context.Context, destination string, days int, activities string) []PackingSuggestion {
	cacheKey := fmt.Sprintf("packing_%s_%d_%s", destination, days, activities)
	if raw, ok := c.cache.Get(cacheKey); ok {
		var cached []PackingSuggestion
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	prompt := fmt.Sprintf(
		"Create a list of essential items to pack for a %d-day trip to %s. Planned activities include: %s. Return only the list of items.",
		days, destination, activities)

	var suggestions []PackingSuggestion
	if err := c.generate(ctx, prompt, packingSchema, &suggestions); err != nil {
		slog.Warn("packing suggestion failed, using placeholders", "destination", destination, "error", err)
		return placeholderPacking()
	}
	if len(suggestions) == 0 {
		return placeholderPacking()
	}

	if raw, err := json.Marshal(suggestions); err == nil {
		c.cache.Set(cacheKey, raw, packingCacheTTL)
	}
	return suggestions
}

func (c *Client) generate(ctx context.Context, prompt string, schema json.RawMessage, out any) error {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, body)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("provider returned no candidates")
	}

	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse suggestion payload: %w", err)
	}
	return nil
}

func placeholderTimeline(targetDay int) []TimelineSuggestion {
	day := 1
	if targetDay > 0 {
		day = targetDay
	}
	return []TimelineSuggestion{
		{Day: day, Time: "10:00", Activity: "Arrive and check in", Description: "Settle in at your hotel.", Location: "Hotel"},
		{Day: day, Time: "13:00", Activity: "Lunch at a local cafe", Description: "Try the local cuisine.", Location: "City center"},
	}
}

func placeholderPacking() []PackingSuggestion {
	return []PackingSuggestion{
		{Item: "Sunscreen"},
		{Item: "Sunglasses"},
		{Item: "Power bank"},
	}
}
