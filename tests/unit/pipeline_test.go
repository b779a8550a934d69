package unit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
	"github.com/yanqian/stay-assistant/internal/domain/llm"
	"github.com/yanqian/stay-assistant/internal/infra/hotelclient"
	"github.com/yanqian/stay-assistant/internal/infra/reviews"
	"github.com/yanqian/stay-assistant/internal/infra/weather/openmeteo"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

const dryForecast = `{
	"latitude": 1.29, "longitude": 103.85,
	"hourly": {
		"time": ["2025-03-27T00:00", "2025-03-27T12:00", "2025-03-28T00:00", "2025-03-28T12:00", "2025-03-29T00:00", "2025-03-29T12:00"],
		"temperature_2m": [27.0, 28.2, 28.4, 29.4, 29.0, 29.4],
		"relative_humidity_2m": [74.0, 75.4, 68.0, 68.8, 67.0, 67.8],
		"rain": [0, 0, 0, 0, 0, 0]
	}
}`

const lookupResponse = `{"city":"Singapore","iata_code":"SIN","hotels":[
	{"name":"Marina Bay Sands"},{"name":"TEST PROPERTY SIN"},{"name":"Raffles Hotel"},{"name":"Hotel Jen"},{"name":"No Reviews Inn"}
]}`

const reviewCorpus = `{
	"Singapore": {
		"Marina Bay Sands": [{"date": "2025-01-02", "comment": "Great view, spotless rooms"}],
		"Raffles Hotel": [{"date": "2025-01-05", "comment": "Impeccable service"}],
		"Hotel Jen": [{"date": "2025-02-01", "comment": "Close to the metro"}],
		"TEST PROPERTY SIN": [{"date": "2025-02-01", "comment": "fixture"}]
	}
}`

type pipelineHarness struct {
	pipeline     assistant.Pipeline
	llm          *scriptedLLM
	weatherCalls atomic.Int32
	lookupCalls  atomic.Int32
}

func newPipelineHarness(t *testing.T, replies []llm.Reply) *pipelineHarness {
	t.Helper()
	h := &pipelineHarness{llm: &scriptedLLM{replies: replies}}

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.weatherCalls.Add(1)
		_, _ = w.Write([]byte(dryForecast))
	}))
	t.Cleanup(weatherSrv.Close)
	lookupSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.lookupCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(lookupResponse))
	}))
	t.Cleanup(lookupSrv.Close)

	corpusPath := filepath.Join(t.TempDir(), "reviews.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(reviewCorpus), 0o600))

	cfg := assistant.Config{ReviewCorpus: corpusPath}
	logger := newTestLogger()
	registry, err := assistant.NewToolRegistry(assistant.NewWeatherForecastTool(openmeteo.NewClient(weatherSrv.URL, time.Second)))
	require.NoError(t, err)

	h.pipeline = assistant.NewPipeline(cfg,
		assistant.NewIntentClassifier(cfg, h.llm, logger),
		assistant.NewSlotExtractor(cfg, h.llm, logger),
		assistant.NewWeatherBriefer(cfg, h.llm, registry, logger),
		assistant.NewHotelRanker(cfg, h.llm, hotelclient.NewClient(lookupSrv.URL, time.Second), reviews.NewLoader(nil), nil, logger),
		logger,
	)
	return h
}

func TestPipelineEndToEnd(t *testing.T) {
	h := newPipelineHarness(t, []llm.Reply{
		{Content: `{"is_accomodation_search": true}`},
		{Content: `{"city":"Singapore","start_date":"2025-03-27","end_date":"2025-03-29"}`},
		{ToolCalls: []llm.ToolCall{{ID: "call_weather", Name: assistant.ToolWeatherForecast,
			Arguments: `{"latitude":1.29,"longitude":103.85,"start_date":"2025-03-27","end_date":"2025-03-29"}`}}},
		{Content: `{"weather_report":"Expect warm, humid and dry days around 28-29C."}`},
		{Content: `{"rankings":[
			{"hotel_name":"Raffles Hotel","reason":"Best service","pros":["staff"],"cons":["price"]},
			{"hotel_name":"Marina Bay Sands","reason":"Clean with a view","pros":["view"],"cons":["crowds"]},
			{"hotel_name":"Hotel Jen","reason":"Convenient","pros":["metro"],"cons":[]}
		]}`},
	})

	result, err := h.pipeline.Run(context.Background(), "Find me a hotel in Singapore from 27 to 29 March 2025")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Contains(t, result.WeatherSummary, "dry")
	require.Equal(t, []string{"Raffles Hotel", "Marina Bay Sands", "Hotel Jen"},
		[]string{result.TopHotels[0].HotelName, result.TopHotels[1].HotelName, result.TopHotels[2].HotelName})
	require.Equal(t, int32(1), h.weatherCalls.Load())
	require.Equal(t, int32(1), h.lookupCalls.Load())

	toolResult := h.llm.requests[3].Messages[3]
	require.Equal(t, "call_weather", toolResult.ToolCallID)
	require.JSONEq(t, `{
		"2025-03-27":{"average_temperature":27.6,"average_humidity":74.7,"total_rain":0,"rain_times":[]},
		"2025-03-28":{"average_temperature":28.9,"average_humidity":68.4,"total_rain":0,"rain_times":[]},
		"2025-03-29":{"average_temperature":29.2,"average_humidity":67.4,"total_rain":0,"rain_times":[]}
	}`, toolResult.Content)

	rankingPrompt := h.llm.requests[4].Messages[1].Content
	require.NotContains(t, rankingPrompt, "TEST PROPERTY")
	require.NotContains(t, rankingPrompt, "No Reviews Inn")
}

func TestPipelineDeclinesWithoutDownstreamCalls(t *testing.T) {
	h := newPipelineHarness(t, []llm.Reply{{Content: `{"is_accomodation_search": false}`}})

	result, err := h.pipeline.Run(context.Background(), "Tell me a joke")
	require.NoError(t, err)
	require.Nil(t, result)
	require.Len(t, h.llm.requests, 1)
	require.Zero(t, h.weatherCalls.Load())
	require.Zero(t, h.lookupCalls.Load())
}

func TestPipelineMissingDatesStopsEarly(t *testing.T) {
	h := newPipelineHarness(t, []llm.Reply{
		{Content: `{"is_accomodation_search": true}`},
		{Content: `{"city":"Singapore","start_date":null,"end_date":"[None]"}`},
	})

	_, err := h.pipeline.Run(context.Background(), "I need a hotel in Singapore")
	require.True(t, apperrors.IsCode(err, "incomplete_request"))
	require.Len(t, h.llm.requests, 2)
	require.Zero(t, h.weatherCalls.Load())
	require.Zero(t, h.lookupCalls.Load())
}
