package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

func TestClassifyReturnsModelDecision(t *testing.T) {
	client := &stubLLM{replies: []llm.Reply{{Content: `{"is_accomodation_search": true}`}}}
	classifier := NewIntentClassifier(Config{}, client, newTestLogger())

	ok, err := classifier.Classify(context.Background(), "Find me a hotel in Singapore from 2025-03-27 to 2025-03-29")
	require.NoError(t, err)
	require.True(t, ok)

	req := client.requests[0]
	require.Equal(t, "accomodation_check", req.Schema.Name)
	require.Contains(t, req.Messages[0].Content, "finding accomodation")
	require.Equal(t, llm.RoleUser, req.Messages[1].Role)
}

func TestClassifyMalformedOutputIsFatal(t *testing.T) {
	replies := []string{`{}`, `{"is_accomodation_search": "yes"}`, `maybe`}
	for _, content := range replies {
		client := &stubLLM{replies: []llm.Reply{{Content: content}}}
		classifier := NewIntentClassifier(Config{}, client, newTestLogger())

		ok, err := classifier.Classify(context.Background(), "hotel please")
		require.False(t, ok)
		require.True(t, apperrors.IsCode(err, "llm_error"), content)
	}
}

func TestClassifyPropagatesClientFailure(t *testing.T) {
	client := &stubLLM{err: errors.New("connection refused")}
	classifier := NewIntentClassifier(Config{ClassifierPrompt: "custom"}, client, newTestLogger())

	_, err := classifier.Classify(context.Background(), "hotel please")
	require.True(t, apperrors.IsCode(err, "llm_error"))
	require.Equal(t, "custom", client.requests[0].Messages[0].Content)
}

func TestClassifyRejectsEmptyText(t *testing.T) {
	client := &stubLLM{}
	classifier := NewIntentClassifier(Config{}, client, newTestLogger())

	_, err := classifier.Classify(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Empty(t, client.requests)
}
