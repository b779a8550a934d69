package hotels

// Hotel mirrors the travel API hotel listing record.
type Hotel struct {
	Name       string         `json:"name"`
	HotelID    string         `json:"hotelId"`
	Address    map[string]any `json:"address"`
	ChainCode  string         `json:"chainCode"`
	IATACode   string         `json:"iataCode"`
	DupeID     int64          `json:"dupeId"`
	GeoCode    map[string]any `json:"geoCode"`
	Distance   map[string]any `json:"distance"`
	LastUpdate string         `json:"lastUpdate"`
}

// CityResponse is returned by the city search endpoints.
type CityResponse struct {
	City     string  `json:"city"`
	IATACode string  `json:"iata_code"`
	Hotels   []Hotel `json:"hotels"`
}

// Sentiment is the review sentiment summary of one hotel.
type Sentiment struct {
	HotelID         string         `json:"hotelId"`
	Type            string         `json:"type"`
	OverallRating   int            `json:"overallRating"`
	NumberOfReviews int            `json:"numberOfReviews"`
	NumberOfRatings int            `json:"numberOfRatings"`
	Sentiments      map[string]int `json:"sentiments"`
}

// ErrorResponse is the body of every failed lookup request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SearchQuery filters a city hotel search; empty filters are not sent upstream.
type SearchQuery struct {
	City      string
	Amenities []string
	Ratings   []string
}
