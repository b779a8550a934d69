package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
	"github.com/yanqian/stay-assistant/pkg/util"
)

type stubClassifier struct {
	result bool
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (bool, error) {
	s.calls++
	return s.result, s.err
}

type stubExtractor struct {
	stay      StayRequest
	err       error
	calls     int
	reference time.Time
}

func (s *stubExtractor) Extract(ctx context.Context, text string, referenceDate time.Time) (StayRequest, error) {
	s.calls++
	s.reference = referenceDate
	return s.stay, s.err
}

type stubBriefer struct {
	brief WeatherBrief
	err   error
	calls int
}

func (s *stubBriefer) Summarize(ctx context.Context, stay StayRequest) (WeatherBrief, error) {
	s.calls++
	return s.brief, s.err
}

type stubRanker struct {
	rankings HotelRankings
	err      error
	calls     int
	location  string
	requestID string
}

func (s *stubRanker) Rank(ctx context.Context, city, corpusLocation string) (HotelRankings, error) {
	s.calls++
	s.location = corpusLocation
	s.requestID = util.RequestID(ctx)
	return s.rankings, s.err
}

func TestPipelineDeclinesNonAccommodationText(t *testing.T) {
	classifier := &stubClassifier{result: false}
	extractor := &stubExtractor{}
	briefer := &stubBriefer{}
	ranker := &stubRanker{}
	p := NewPipeline(Config{}, classifier, extractor, briefer, ranker, newTestLogger())

	result, err := p.Run(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, 1, classifier.calls)
	require.Zero(t, extractor.calls)
	require.Zero(t, briefer.calls)
	require.Zero(t, ranker.calls)
}

func TestPipelineStopsOnMissingSlots(t *testing.T) {
	extractor := &stubExtractor{stay: StayRequest{City: KnownSlot("Berlin")}}
	briefer := &stubBriefer{}
	ranker := &stubRanker{}
	p := NewPipeline(Config{}, &stubClassifier{result: true}, extractor, briefer, ranker, newTestLogger())

	result, err := p.Run(context.Background(), "I need a hotel in Berlin")
	require.Nil(t, result)
	require.True(t, apperrors.IsCode(err, "incomplete_request"))
	require.Contains(t, err.Error(), "start_date, end_date")
	require.Zero(t, briefer.calls)
	require.Zero(t, ranker.calls)
}

func TestPipelineComposesResult(t *testing.T) {
	extractor := &stubExtractor{stay: singaporeStay()}
	briefer := &stubBriefer{brief: WeatherBrief{Summary: "Dry and warm.", State: StateSummaryReady}}
	ranker := &stubRanker{rankings: HotelRankings{City: "Singapore", Hotels: []RankedHotel{
		{Rank: 1, HotelName: "Marina Bay Sands"},
		{Rank: 2, HotelName: "Raffles Hotel"},
		{Rank: 3, HotelName: "Hotel Jen"},
	}}}
	p := NewPipeline(Config{ReviewCorpus: "data/reviews.json"}, &stubClassifier{result: true}, extractor, briefer, ranker, newTestLogger())
	fixed := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	p.(*pipeline).now = func() time.Time { return fixed }

	result, err := p.Run(context.Background(), "Hotel in Singapore from 2025-03-27 to 2025-03-29")
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Equal(t, singaporeStay(), result.Stay)
	require.Equal(t, "Dry and warm.", result.WeatherSummary)
	require.Len(t, result.TopHotels, 3)
	require.Equal(t, "data/reviews.json", ranker.location)
	require.Equal(t, fixed, extractor.reference)
	require.Equal(t, result.RunID, ranker.requestID)
}

func TestPipelinePropagatesStageFailures(t *testing.T) {
	failure := apperrors.Wrap("upstream_error", "weather api unavailable", nil)
	ranker := &stubRanker{}
	p := NewPipeline(Config{}, &stubClassifier{result: true}, &stubExtractor{stay: singaporeStay()}, &stubBriefer{err: failure}, ranker, newTestLogger())

	_, err := p.Run(context.Background(), "Hotel in Singapore from 2025-03-27 to 2025-03-29")
	require.ErrorIs(t, err, failure)
	require.Zero(t, ranker.calls)
}
