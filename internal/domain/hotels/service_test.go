package hotels

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

type stubAPI struct {
	code       string
	codeErr    error
	hotels     []Hotel
	sentiments []Sentiment
	amenities  []string
	ratings    []string
	cityCalls  int
	listCalls  int
	lastIDs    string
}

func (s *stubAPI) CityCode(ctx context.Context, city string) (string, error) {
	s.cityCalls++
	return s.code, s.codeErr
}

func (s *stubAPI) HotelsByCity(ctx context.Context, cityCode string, amenities, ratings []string) ([]Hotel, error) {
	s.listCalls++
	s.amenities = amenities
	s.ratings = ratings
	return s.hotels, nil
}

func (s *stubAPI) HotelsByIDs(ctx context.Context, hotelIDs string) ([]Hotel, error) {
	s.lastIDs = hotelIDs
	return s.hotels, nil
}

func (s *stubAPI) Sentiments(ctx context.Context, hotelIDs string) ([]Sentiment, error) {
	s.lastIDs = hotelIDs
	return s.sentiments, nil
}

func newTestService(api TravelAPI) Service {
	return NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchReturnsCityHotels(t *testing.T) {
	api := &stubAPI{code: "SIN", hotels: []Hotel{{Name: "Hotel Jen", HotelID: "JNSIN001"}}}
	svc := newTestService(api)

	resp, err := svc.Search(context.Background(), SearchQuery{City: " Singapore ", Ratings: []string{"3", "4,5"}, Amenities: []string{""}})
	require.NoError(t, err)
	require.Equal(t, "Singapore", resp.City)
	require.Equal(t, "SIN", resp.IATACode)
	require.Len(t, resp.Hotels, 1)
	require.Equal(t, []string{"3", "4", "5"}, api.ratings)
	require.Nil(t, api.amenities)
}

func TestSearchEmptyListIsNotAnError(t *testing.T) {
	svc := newTestService(&stubAPI{code: "SIN"})

	resp, err := svc.Search(context.Background(), SearchQuery{City: "Singapore"})
	require.NoError(t, err)
	require.NotNil(t, resp.Hotels)
	require.Empty(t, resp.Hotels)
}

func TestSearchUnknownCity(t *testing.T) {
	api := &stubAPI{codeErr: apperrors.Wrap("not_found", "City not found", nil)}
	svc := newTestService(api)

	_, err := svc.Search(context.Background(), SearchQuery{City: "Atlantis"})
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.Zero(t, api.listCalls)
}

func TestSearchRequiresCity(t *testing.T) {
	api := &stubAPI{}
	_, err := newTestService(api).Search(context.Background(), SearchQuery{})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Zero(t, api.cityCalls)
}

func TestCityReturnsCodeOnly(t *testing.T) {
	api := &stubAPI{code: "PAR", hotels: []Hotel{{Name: "ignored"}}}
	resp, err := newTestService(api).City(context.Background(), "Paris")
	require.NoError(t, err)
	require.Equal(t, CityResponse{City: "Paris", IATACode: "PAR", Hotels: []Hotel{}}, resp)
	require.Zero(t, api.listCalls)
}

func TestHotelByID(t *testing.T) {
	api := &stubAPI{hotels: []Hotel{{Name: "Raffles Hotel", HotelID: "RFSIN001"}, {Name: "second"}}}
	hotel, err := newTestService(api).HotelByID(context.Background(), "RFSIN001")
	require.NoError(t, err)
	require.Equal(t, "Raffles Hotel", hotel.Name)
	require.Equal(t, "RFSIN001", api.lastIDs)

	_, err = newTestService(&stubAPI{}).HotelByID(context.Background(), "MISSING")
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestSentiments(t *testing.T) {
	api := &stubAPI{sentiments: []Sentiment{{HotelID: "RFSIN001", OverallRating: 91, Sentiments: map[string]int{"service": 95}}}}
	sentiment, err := newTestService(api).Sentiments(context.Background(), "RFSIN001")
	require.NoError(t, err)
	require.Equal(t, 91, sentiment.OverallRating)

	_, err = newTestService(&stubAPI{}).Sentiments(context.Background(), "RFSIN001")
	require.True(t, apperrors.IsCode(err, "not_found"))
}
