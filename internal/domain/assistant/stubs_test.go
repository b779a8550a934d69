package assistant

import (
	"context"
	"io"
	"log/slog"

	"github.com/yanqian/stay-assistant/internal/domain/forecast"
	"github.com/yanqian/stay-assistant/internal/domain/llm"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLLM struct {
	replies  []llm.Reply
	err      error
	calls    int
	requests []llm.Request
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (llm.Reply, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return llm.Reply{}, s.err
	}
	if s.calls >= len(s.replies) {
		return llm.Reply{}, nil
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

type stubWeather struct {
	daily forecast.Daily
	err   error
	calls int
	args  []any
}

func (s *stubWeather) FetchDaily(ctx context.Context, latitude, longitude float64, startDate, endDate string) (forecast.Daily, error) {
	s.calls++
	s.args = []any{latitude, longitude, startDate, endDate}
	if s.err != nil {
		return nil, s.err
	}
	return s.daily, nil
}

type stubSearcher struct {
	names   []string
	err     error
	calls   int
	city    string
	ratings []int
}

func (s *stubSearcher) SearchHotels(ctx context.Context, city string, ratings []int) ([]string, error) {
	s.calls++
	s.city = city
	s.ratings = ratings
	return s.names, s.err
}

type stubLoader struct {
	corpus   ReviewCorpus
	err      error
	location string
}

func (s *stubLoader) Load(ctx context.Context, location string) (ReviewCorpus, error) {
	s.location = location
	return s.corpus, s.err
}

type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
