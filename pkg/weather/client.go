package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultEndpoint = "https://api.openweathermap.org"

// Current is the subset of a provider observation the marketplace stores.
type Current struct {
	Temperature float64
	Humidity    float64
	Rainfall    float64
	Conditions  string
}

// ProviderError carries a non-success response from the provider verbatim.
type ProviderError struct {
	Status int
	Body   []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider returned %d: %s", e.Status, strings.TrimSpace(string(e.Body)))
}

type Client interface {
	Current(ctx context.Context, location string) (*Current, error)
}

type openWeather struct {
	endpoint string
	key      string
	httpc    *http.Client
}

// NewOpenWeather returns a client for the OpenWeatherMap current-weather API.
func NewOpenWeather(endpoint, key string, timeout time.Duration) Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &openWeather{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type currentResponse struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (c *openWeather) Current(ctx context.Context, location string) (*Current, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.key)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Status: resp.StatusCode, Body: body}
	}

	var out currentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if out.Main.Temp == nil || out.Main.Humidity == nil {
		return nil, fmt.Errorf("weather response missing main.temp or main.humidity")
	}
	if len(out.Weather) == 0 {
		return nil, fmt.Errorf("weather response missing conditions")
	}

	conditions := out.Weather[0].Description
	if conditions == "" {
		conditions = out.Weather[0].Main
	}
	return &Current{
		Temperature: *out.Main.Temp,
		Humidity:    *out.Main.Humidity,
		Rainfall:    out.Rain.OneHour,
		Conditions:  conditions,
	}, nil
}
