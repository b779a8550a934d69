package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/yanqian/stay-assistant/internal/domain/llm"
	"github.com/yanqian/stay-assistant/internal/infra/llm/chatgpt"
)

type stubChatClient struct {
	resp        chatgpt.ChatCompletionResponse
	err         error
	lastRequest chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.lastRequest = req
	return s.resp, s.err
}

func replyWith(msg chatgpt.Message) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{{Message: msg}},
		Usage: chatgpt.Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6},
	}
}

func TestCompleteMapsSchemaToResponseFormat(t *testing.T) {
	client := &stubChatClient{resp: replyWith(chatgpt.Message{Role: "assistant", Content: " {\"ok\":true} "})}
	adapter := NewChatGPTLLM(client, "llama3.2:3b", 0.1)

	reply, err := adapter.Complete(context.Background(), domain.Request{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "hello"}},
		Schema:   &domain.Schema{Name: "check", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, reply.Content)
	require.Equal(t, 6, reply.Usage.TotalTokens)

	req := client.lastRequest
	require.Equal(t, "llama3.2:3b", req.Model)
	require.Equal(t, float32(0.1), req.Temperature)
	require.NotNil(t, req.ResponseFormat)
	require.Equal(t, "json_schema", req.ResponseFormat.Type)
	require.Equal(t, "check", req.ResponseFormat.JSONSchema.Name)
	require.True(t, req.ResponseFormat.JSONSchema.Strict)
	require.Empty(t, req.Tools)
}

func TestCompleteRoundTripsToolCalls(t *testing.T) {
	client := &stubChatClient{resp: replyWith(chatgpt.Message{
		Role: "assistant",
		ToolCalls: []chatgpt.ToolCall{{
			ID:       "call_9",
			Type:     "function",
			Function: chatgpt.ToolCallDefinition{Name: "get_weather_forecast", Arguments: `{"latitude":1}`},
		}},
	})}
	adapter := NewChatGPTLLM(client, "m", 0)

	reply, err := adapter.Complete(context.Background(), domain.Request{
		Messages: []domain.Message{
			{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{ID: "call_1", Name: "get_weather_forecast", Arguments: "{}"}}},
			{Role: domain.RoleTool, ToolCallID: "call_1", Content: `{"error":"x"}`},
		},
		Tools: []domain.ToolDeclaration{{Name: "get_weather_forecast", Parameters: map[string]any{"type": "object"}}},
	})
	require.NoError(t, err)
	require.Equal(t, []domain.ToolCall{{ID: "call_9", Name: "get_weather_forecast", Arguments: `{"latitude":1}`}}, reply.ToolCalls)

	req := client.lastRequest
	require.Len(t, req.Tools, 1)
	require.Equal(t, "function", req.Tools[0].Type)
	require.True(t, req.Tools[0].Function.Strict)
	require.Equal(t, "call_1", req.Messages[0].ToolCalls[0].ID)
	require.Equal(t, "function", req.Messages[0].ToolCalls[0].Type)
	require.Equal(t, "call_1", req.Messages[1].ToolCallID)
	require.Nil(t, req.ResponseFormat)
}

func TestCompleteNoChoices(t *testing.T) {
	adapter := NewChatGPTLLM(&stubChatClient{}, "m", 0)
	reply, err := adapter.Complete(context.Background(), domain.Request{})
	require.NoError(t, err)
	require.Empty(t, reply.Content)
}

func TestCompletePropagatesError(t *testing.T) {
	boom := errors.New("down")
	adapter := NewChatGPTLLM(&stubChatClient{err: boom}, "m", 0)
	_, err := adapter.Complete(context.Background(), domain.Request{})
	require.ErrorIs(t, err, boom)
}
