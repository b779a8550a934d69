package hotels

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

// Service exposes hotel and city lookups backed by the travel API.
type Service interface {
	Search(ctx context.Context, query SearchQuery) (CityResponse, error)
	City(ctx context.Context, city string) (CityResponse, error)
	HotelByID(ctx context.Context, hotelID string) (Hotel, error)
	Sentiments(ctx context.Context, hotelID string) (Sentiment, error)
}

// TravelAPI is the authenticated upstream used by the lookup service.
type TravelAPI interface {
	CityCode(ctx context.Context, city string) (string, error)
	HotelsByCity(ctx context.Context, cityCode string, amenities, ratings []string) ([]Hotel, error)
	HotelsByIDs(ctx context.Context, hotelIDs string) ([]Hotel, error)
	Sentiments(ctx context.Context, hotelIDs string) ([]Sentiment, error)
}

type service struct {
	api    TravelAPI
	logger *slog.Logger
}

// NewService wires up the lookup domain.
func NewService(api TravelAPI, logger *slog.Logger) Service {
	return &service{api: api, logger: logger.With("component", "hotels.service")}
}

func (s *service) Search(ctx context.Context, query SearchQuery) (CityResponse, error) {
	city := strings.TrimSpace(query.City)
	if city == "" {
		return CityResponse{}, apperrors.Wrap("invalid_input", "city is required", nil)
	}
	code, err := s.api.CityCode(ctx, city)
	if err != nil {
		return CityResponse{}, err
	}
	found, err := s.api.HotelsByCity(ctx, code, compact(query.Amenities), compact(query.Ratings))
	if err != nil {
		return CityResponse{}, err
	}
	if found == nil {
		found = []Hotel{}
	}
	s.logger.Info("hotels found", "city", city, "iata_code", code, "count", len(found))
	return CityResponse{City: city, IATACode: code, Hotels: found}, nil
}

func (s *service) City(ctx context.Context, city string) (CityResponse, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return CityResponse{}, apperrors.Wrap("invalid_input", "city is required", nil)
	}
	code, err := s.api.CityCode(ctx, city)
	if err != nil {
		return CityResponse{}, err
	}
	return CityResponse{City: city, IATACode: code, Hotels: []Hotel{}}, nil
}

func (s *service) HotelByID(ctx context.Context, hotelID string) (Hotel, error) {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return Hotel{}, apperrors.Wrap("invalid_input", "hotel id is required", nil)
	}
	found, err := s.api.HotelsByIDs(ctx, hotelID)
	if err != nil {
		return Hotel{}, err
	}
	if len(found) == 0 {
		return Hotel{}, apperrors.Wrap("not_found", "Hotel not found", nil)
	}
	return found[0], nil
}

func (s *service) Sentiments(ctx context.Context, hotelID string) (Sentiment, error) {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return Sentiment{}, apperrors.Wrap("invalid_input", "hotel id is required", nil)
	}
	found, err := s.api.Sentiments(ctx, hotelID)
	if err != nil {
		return Sentiment{}, err
	}
	if len(found) == 0 {
		return Sentiment{}, apperrors.Wrap("not_found", "Hotel not found", nil)
	}
	return found[0], nil
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
