package unit

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedLLM replays replies in order and records every request.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []llm.Reply
	requests []llm.Request
}

func (s *scriptedLLM) Complete(ctx context.Context, req llm.Request) (llm.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return llm.Reply{}, nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}
