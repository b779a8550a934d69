package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/stay-assistant/internal/domain/forecast"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
	"github.com/yanqian/stay-assistant/pkg/util"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	hourlyFields   = "temperature_2m,relative_humidity_2m,rain"
)

// Client fetches hourly forecasts from Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Transport: telemetry.NewTransport(nil),
			Timeout:   timeout,
		},
	}
}

// Fetch retrieves the raw hourly series for a coordinate and inclusive date range.
// Malformed or empty payloads yield *forecast.IncompleteDataError.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64, startDate, endDate string) (forecast.HourlySeries, error) {
	if err := validate(latitude, longitude, startDate, endDate); err != nil {
		return forecast.HourlySeries{}, err
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("hourly", hourlyFields)
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.HourlySeries{}, apperrors.Wrap("upstream_error", "forecast request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return forecast.HourlySeries{}, apperrors.Wrap("upstream_error", "read forecast response", err)
	}

	if resp.StatusCode >= 500 {
		return forecast.HourlySeries{}, apperrors.Wrap("upstream_error",
			fmt.Sprintf("forecast request error: status=%d body=%s", resp.StatusCode, truncate(body, 4<<10)), nil)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.HourlySeries{}, &forecast.IncompleteDataError{Reason: "decode forecast response: " + err.Error()}
	}
	if raw.Error || resp.StatusCode >= 300 {
		reason := strings.TrimSpace(raw.Reason)
		if reason == "" {
			reason = fmt.Sprintf("upstream status %d", resp.StatusCode)
		}
		return forecast.HourlySeries{}, &forecast.IncompleteDataError{Reason: reason}
	}
	if raw.Hourly == nil {
		return forecast.HourlySeries{}, &forecast.IncompleteDataError{Reason: "hourly block missing"}
	}
	return raw.Hourly.series()
}

// FetchDaily fetches the hourly series and folds it into per-day summaries.
func (c *Client) FetchDaily(ctx context.Context, latitude, longitude float64, startDate, endDate string) (forecast.Daily, error) {
	series, err := c.Fetch(ctx, latitude, longitude, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return forecast.Aggregate(series)
}

type apiResponse struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Timezone  string         `json:"timezone"`
	Hourly    *hourlyPayload `json:"hourly"`
	Error     bool           `json:"error"`
	Reason    string         `json:"reason"`
}

// hourlyPayload keeps nulls visible; Open-Meteo sends null for hours without data.
type hourlyPayload struct {
	Times       []string   `json:"time"`
	Temperature []*float64 `json:"temperature_2m"`
	Humidity    []*float64 `json:"relative_humidity_2m"`
	Rain        []*float64 `json:"rain"`
}

func (h *hourlyPayload) series() (forecast.HourlySeries, error) {
	temperature, err := present("temperature", h.Temperature)
	if err != nil {
		return forecast.HourlySeries{}, err
	}
	humidity, err := present("humidity", h.Humidity)
	if err != nil {
		return forecast.HourlySeries{}, err
	}
	rain, err := present("rain", h.Rain)
	if err != nil {
		return forecast.HourlySeries{}, err
	}
	return forecast.HourlySeries{
		Times:       h.Times,
		Temperature: temperature,
		Humidity:    humidity,
		Rain:        rain,
	}, nil
}

func present(name string, values []*float64) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			return nil, &forecast.IncompleteDataError{Reason: fmt.Sprintf("null %s at index %d", name, i)}
		}
		out[i] = *v
	}
	return out, nil
}

func validate(latitude, longitude float64, startDate, endDate string) error {
	if latitude < -90 || latitude > 90 {
		return apperrors.Wrap("invalid_arguments", fmt.Sprintf("latitude %.4f out of range (-90 to 90)", latitude), nil)
	}
	if longitude < -180 || longitude > 180 {
		return apperrors.Wrap("invalid_arguments", fmt.Sprintf("longitude %.4f out of range (-180 to 180)", longitude), nil)
	}
	if !util.IsISODate(startDate) {
		return apperrors.Wrap("invalid_arguments", fmt.Sprintf("start_date %q must be formatted as YYYY-MM-DD", startDate), nil)
	}
	if !util.IsISODate(endDate) {
		return apperrors.Wrap("invalid_arguments", fmt.Sprintf("end_date %q must be formatted as YYYY-MM-DD", endDate), nil)
	}
	return nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
