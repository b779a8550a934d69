// Package travelapi calls the hotel and location endpoints of the travel API using
// client-credentials bearer tokens.
package travelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/yanqian/stay-assistant/internal/domain/hotels"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

// Config holds the upstream endpoints and OAuth client credentials.
type Config struct {
	TokenURL     string
	BaseURL      string
	ReviewURL    string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client implements hotels.TravelAPI.
type Client struct {
	baseURL     string
	reviewURL   string
	credentials clientcredentials.Config
	httpClient  *http.Client
}

// NewClient builds the travel API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		reviewURL: strings.TrimRight(strings.TrimSpace(cfg.ReviewURL), "/"),
		credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{
			Transport: telemetry.NewTransport(nil),
			Timeout:   timeout,
		},
	}
}

type location struct {
	IATACode string `json:"iataCode"`
	Name     string `json:"name"`
}

// CityCode resolves a city name to its IATA code.
func (c *Client) CityCode(ctx context.Context, city string) (string, error) {
	query := url.Values{}
	query.Set("keyword", city)
	query.Set("subType", "CITY")
	found, err := getData[location](ctx, c, c.baseURL, query)
	if err != nil {
		return "", err
	}
	if len(found) == 0 || strings.TrimSpace(found[0].IATACode) == "" {
		return "", apperrors.Wrap("not_found", "City not found", nil)
	}
	return found[0].IATACode, nil
}

// HotelsByCity lists hotels for an IATA city code; filters are sent comma separated.
func (c *Client) HotelsByCity(ctx context.Context, cityCode string, amenities, ratings []string) ([]hotels.Hotel, error) {
	query := url.Values{}
	query.Set("cityCode", cityCode)
	if len(amenities) > 0 {
		query.Set("amenities", strings.Join(amenities, ","))
	}
	if len(ratings) > 0 {
		query.Set("ratings", strings.Join(ratings, ","))
	}
	return getData[hotels.Hotel](ctx, c, c.baseURL+"/hotels/by-city", query)
}

// HotelsByIDs fetches hotel records by id.
func (c *Client) HotelsByIDs(ctx context.Context, hotelIDs string) ([]hotels.Hotel, error) {
	query := url.Values{}
	query.Set("hotelIds", hotelIDs)
	return getData[hotels.Hotel](ctx, c, c.baseURL+"/hotels/by-hotels", query)
}

// Sentiments fetches review sentiment summaries by hotel id.
func (c *Client) Sentiments(ctx context.Context, hotelIDs string) ([]hotels.Sentiment, error) {
	query := url.Values{}
	query.Set("hotelIds", hotelIDs)
	return getData[hotels.Sentiment](ctx, c, c.reviewURL+"/e-reputation/hotel-sentiments", query)
}

// token fetches a fresh access token; tokens are not reused across requests.
func (c *Client) token(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.credentials.Token(ctx)
	if err != nil {
		return "", apperrors.Wrap("upstream_auth", "failed to obtain access token", err)
	}
	if tok.AccessToken == "" {
		return "", apperrors.Wrap("upstream_auth", "token endpoint returned no access token", nil)
	}
	return tok.AccessToken, nil
}

type envelope[T any] struct {
	Data []T `json:"data"`
}

func getData[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]T, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build travel api request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap("upstream_error", "travel api request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, apperrors.Wrap("upstream_error", "read travel api response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Wrap("upstream_error",
			fmt.Sprintf("travel api error: status=%d body=%s", resp.StatusCode, truncate(body, 2<<10)), nil)
	}

	var payload envelope[T]
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap("upstream_error", "decode travel api response", err)
	}
	return payload.Data, nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}

var _ hotels.TravelAPI = (*Client)(nil)
