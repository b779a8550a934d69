// Package hotelclient queries the companion lookup service for hotels in a city.
package hotelclient

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

	"github.com/yanqian/stay-assistant/internal/domain/hotels"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
)

const defaultBaseURL = "http://localhost:8084"

// Client implements assistant.HotelSearcher over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a lookup service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Transport: telemetry.NewTransport(nil),
			Timeout:   timeout,
		},
	}
}

// SearchHotels returns hotel names for city; an unknown city yields no names.
func (c *Client) SearchHotels(ctx context.Context, city string, ratings []int) ([]string, error) {
	query := url.Values{}
	query.Set("city", city)
	for _, rating := range ratings {
		query.Add("ratings", strconv.Itoa(rating))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/hotels?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build hotel search request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read hotel search response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotel search error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload hotels.CityResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode hotel search response: %w", err)
	}
	names := make([]string, 0, len(payload.Hotels))
	for _, hotel := range payload.Hotels {
		if name := strings.TrimSpace(hotel.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
