package assistant

import (
	"encoding/json"
	"strings"
)

// Slot is an extracted field that may be absent from the user's text.
type Slot struct {
	Value string
	Known bool
}

// KnownSlot wraps a resolved value.
func KnownSlot(value string) Slot {
	return Slot{Value: value, Known: true}
}

// UnknownSlot denotes a field that could not be determined.
func UnknownSlot() Slot {
	return Slot{}
}

func (s Slot) String() string {
	if !s.Known {
		return "<unknown>"
	}
	return s.Value
}

// MarshalJSON encodes unknown slots as null.
func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// StayRequest holds the trip parameters extracted from free text.
type StayRequest struct {
	City      Slot `json:"city"`
	StartDate Slot `json:"start_date"`
	EndDate   Slot `json:"end_date"`
}

// Missing lists the slot names that are unknown.
func (r StayRequest) Missing() []string {
	var missing []string
	if !r.City.Known {
		missing = append(missing, "city")
	}
	if !r.StartDate.Known {
		missing = append(missing, "start_date")
	}
	if !r.EndDate.Known {
		missing = append(missing, "end_date")
	}
	return missing
}

// Complete reports whether every slot is resolved.
func (r StayRequest) Complete() bool {
	return len(r.Missing()) == 0
}

// Review is one guest review attached to a hotel.
type Review struct {
	HotelName string `json:"hotel_name"`
	Date      string `json:"date"`
	Comment   string `json:"comment"`
}

// ReviewEntry is the on-disk shape of a review inside the corpus.
type ReviewEntry struct {
	Date    string `json:"date" yaml:"date"`
	Comment string `json:"comment" yaml:"comment"`
}

// ReviewCorpus indexes reviews by city and hotel name, case-insensitively.
type ReviewCorpus struct {
	cities map[string]map[string]hotelReviews
}

type hotelReviews struct {
	name    string
	entries []ReviewEntry
}

// NewReviewCorpus builds a corpus from a city -> hotel -> reviews mapping.
func NewReviewCorpus(raw map[string]map[string][]ReviewEntry) ReviewCorpus {
	cities := make(map[string]map[string]hotelReviews, len(raw))
	for city, hotels := range raw {
		key := foldKey(city)
		bucket, ok := cities[key]
		if !ok {
			bucket = make(map[string]hotelReviews, len(hotels))
			cities[key] = bucket
		}
		for hotel, entries := range hotels {
			hk := foldKey(hotel)
			existing := bucket[hk]
			if existing.name == "" {
				existing.name = hotel
			}
			existing.entries = append(existing.entries, entries...)
			bucket[hk] = existing
		}
	}
	return ReviewCorpus{cities: cities}
}

// Reviews returns the ordered reviews for a hotel in a city, or nil.
func (c ReviewCorpus) Reviews(city, hotel string) []Review {
	hotels, ok := c.cities[foldKey(city)]
	if !ok {
		return nil
	}
	found, ok := hotels[foldKey(hotel)]
	if !ok || len(found.entries) == 0 {
		return nil
	}
	out := make([]Review, 0, len(found.entries))
	for _, entry := range found.entries {
		out = append(out, Review{HotelName: hotel, Date: entry.Date, Comment: entry.Comment})
	}
	return out
}

// Len returns the number of cities in the corpus.
func (c ReviewCorpus) Len() int {
	return len(c.cities)
}

func foldKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// RankedHotel is one entry of the top-3 ordering; rank 1 is best.
type RankedHotel struct {
	Rank      int      `json:"rank"`
	HotelName string   `json:"hotel_name"`
	Reason    string   `json:"reason"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
}

// HotelRankings holds exactly three ranked hotels.
type HotelRankings struct {
	City   string        `json:"city"`
	Hotels []RankedHotel `json:"hotels"`
}

// Result is the composite pipeline output.
type Result struct {
	RunID          string        `json:"run_id"`
	Stay           StayRequest   `json:"stay"`
	WeatherSummary string        `json:"weather_summary"`
	TopHotels      []RankedHotel `json:"top_3_hotels"`
}

// Config carries prompts and ranking rules for the assistant domain.
type Config struct {
	ClassifierPrompt  string
	ExtractorPrompt   string
	WeatherPrompt     string
	RankingPrompt     string
	Ratings           []int
	TestHotelPrefixes []string
	ReviewCorpus      string
	MaxReviewTokens   int
}
