package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

const defaultRankingPrompt = "You are a hotel review analyst. Rank the hotels using only the guest reviews provided. " +
	"Apply these criteria in order of importance: safety first, then service, cleanliness, location, amenities, " +
	"and consistency of guest satisfaction. Return exactly three hotels ordered from best (first) to third best, " +
	"each with a short reason and lists of pros and cons."

var (
	defaultRatings           = []int{3, 4, 5}
	defaultTestHotelPrefixes = []string{"TEST"}
)

var rankingSchema = llm.Schema{
	Name: "hotel_rankings",
	Definition: llm.ObjectSchema(map[string]any{
		"rankings": map[string]any{
			"type": "array",
			"items": llm.ObjectSchema(map[string]any{
				"hotel_name": map[string]any{"type": "string"},
				"reason":     map[string]any{"type": "string"},
				"pros":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"cons":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			}),
		},
	}),
}

// HotelSearcher lists hotel names for a city filtered by star ratings.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, city string, ratings []int) ([]string, error)
}

// ReviewLoader reads the review corpus from a location such as a file path.
type ReviewLoader interface {
	Load(ctx context.Context, location string) (ReviewCorpus, error)
}

// TokenCounter measures prompt size for the review budget.
type TokenCounter interface {
	CountTokens(text string) int
}

// HotelRanker selects and justifies the top three hotels of a city.
type HotelRanker interface {
	Rank(ctx context.Context, city, corpusLocation string) (HotelRankings, error)
}

type hotelRanker struct {
	prompt    string
	ratings   []int
	denylist  []string
	maxTokens int
	client    llm.Client
	searcher  HotelSearcher
	loader    ReviewLoader
	counter   TokenCounter
	logger    *slog.Logger
}

// NewHotelRanker wires the ranker. counter may be nil when no token budget applies.
func NewHotelRanker(cfg Config, client llm.Client, searcher HotelSearcher, loader ReviewLoader, counter TokenCounter, logger *slog.Logger) HotelRanker {
	prompt := strings.TrimSpace(cfg.RankingPrompt)
	if prompt == "" {
		prompt = defaultRankingPrompt
	}
	ratings := cfg.Ratings
	if len(ratings) == 0 {
		ratings = defaultRatings
	}
	denylist := cfg.TestHotelPrefixes
	if denylist == nil {
		denylist = defaultTestHotelPrefixes
	}
	return &hotelRanker{
		prompt:    prompt,
		ratings:   ratings,
		denylist:  normalizePrefixes(denylist),
		maxTokens: cfg.MaxReviewTokens,
		client:    client,
		searcher:  searcher,
		loader:    loader,
		counter:   counter,
		logger:    logger.With("component", "assistant.ranker"),
	}
}

func (r *hotelRanker) Rank(ctx context.Context, city, corpusLocation string) (HotelRankings, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return HotelRankings{}, apperrors.Wrap("invalid_input", "city cannot be empty", nil)
	}

	names, err := r.searcher.SearchHotels(ctx, city, r.ratings)
	if err != nil {
		return HotelRankings{}, apperrors.Wrap("upstream_error", "hotel search failed", err)
	}
	corpus, err := r.loader.Load(ctx, corpusLocation)
	if err != nil {
		return HotelRankings{}, apperrors.Wrap("upstream_error", "failed to load review corpus", err)
	}

	reviewed := make([]string, 0, len(names))
	var lines []string
	for _, name := range names {
		if r.isTestHotel(name) {
			continue
		}
		reviews := corpus.Reviews(city, name)
		if len(reviews) == 0 {
			continue
		}
		reviewed = append(reviewed, name)
		for _, review := range reviews {
			lines = append(lines, formatReview(review))
		}
	}
	r.logger.Info("hotels eligible for ranking", "city", city, "candidates", len(names), "reviewed", len(reviewed))
	if len(reviewed) == 0 {
		return HotelRankings{}, apperrors.Wrap("insufficient_data", fmt.Sprintf("no reviewed hotels found for %s", city), nil)
	}

	block := r.fitBudget(lines)
	var out struct {
		Rankings []struct {
			HotelName string   `json:"hotel_name"`
			Reason    string   `json:"reason"`
			Pros      []string `json:"pros"`
			Cons      []string `json:"cons"`
		} `json:"rankings"`
	}
	userPrompt := fmt.Sprintf("Hotel reviews for %s:\n%s", city, block)
	usage, err := llm.Structured(ctx, r.client, r.prompt, userPrompt, rankingSchema, &out)
	if err != nil {
		return HotelRankings{}, apperrors.Wrap("llm_error", "hotel ranking failed", err)
	}
	if len(out.Rankings) != 3 {
		return HotelRankings{}, apperrors.Wrap("llm_error", fmt.Sprintf("expected 3 ranked hotels, got %d", len(out.Rankings)), llm.ErrMalformedReply)
	}
	r.logger.Debug("hotels ranked", "city", city, "total_tokens", usage.TotalTokens)

	rankings := HotelRankings{City: city, Hotels: make([]RankedHotel, 0, 3)}
	for i, entry := range out.Rankings {
		rankings.Hotels = append(rankings.Hotels, RankedHotel{
			Rank:      i + 1,
			HotelName: strings.TrimSpace(entry.HotelName),
			Reason:    strings.TrimSpace(entry.Reason),
			Pros:      cleanList(entry.Pros),
			Cons:      cleanList(entry.Cons),
		})
	}
	return rankings, nil
}

func (r *hotelRanker) isTestHotel(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, prefix := range r.denylist {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// fitBudget drops trailing review lines until the block fits maxTokens.
func (r *hotelRanker) fitBudget(lines []string) string {
	block := strings.Join(lines, "\n")
	if r.counter == nil || r.maxTokens <= 0 {
		return block
	}
	kept := len(lines)
	for kept > 1 && r.counter.CountTokens(block) > r.maxTokens {
		kept--
		block = strings.Join(lines[:kept], "\n")
	}
	if kept < len(lines) {
		r.logger.Warn("review block trimmed to token budget", "kept", kept, "total", len(lines), "max_tokens", r.maxTokens)
	}
	return block
}

func formatReview(review Review) string {
	comment := strings.Join(strings.Fields(review.Comment), " ")
	return fmt.Sprintf("%s (%s): %s", review.HotelName, review.Date, comment)
}

func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if clean := strings.TrimSpace(item); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
