package llm

import (
	"context"
	"strings"

	domain "github.com/yanqian/stay-assistant/internal/domain/llm"
	"github.com/yanqian/stay-assistant/internal/infra/llm/chatgpt"
	"github.com/yanqian/stay-assistant/pkg/metrics"
)

// ChatCompleter is the subset of the ChatGPT client the adapter needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ChatGPTLLM adapts the ChatGPT client to the structured-completion capability.
type ChatGPTLLM struct {
	client      ChatCompleter
	model       string
	temperature float32
}

// NewChatGPTLLM constructs the adapter.
func NewChatGPTLLM(client ChatCompleter, model string, temperature float32) *ChatGPTLLM {
	return &ChatGPTLLM{client: client, model: model, temperature: temperature}
}

// Complete sends one chat completion round.
func (l *ChatGPTLLM) Complete(ctx context.Context, req domain.Request) (domain.Reply, error) {
	payload := chatgpt.ChatCompletionRequest{
		Model:       l.model,
		Temperature: l.temperature,
		Messages:    make([]chatgpt.Message, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, toChatMessage(msg))
	}
	for _, tool := range req.Tools {
		payload.Tools = append(payload.Tools, chatgpt.Tool{
			Type: "function",
			Function: chatgpt.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
				Strict:      true,
			},
		})
	}
	if req.Schema != nil {
		payload.ResponseFormat = &chatgpt.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &chatgpt.JSONSchema{
				Name:   req.Schema.Name,
				Schema: req.Schema.Definition,
				Strict: true,
			},
		}
	}

	resp, err := l.client.CreateChatCompletion(ctx, payload)
	if err != nil {
		return domain.Reply{}, err
	}
	reply := domain.Reply{Usage: metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}}
	if len(resp.Choices) == 0 {
		return reply, nil
	}
	msg := resp.Choices[0].Message
	reply.Content = strings.TrimSpace(msg.Content)
	for _, call := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return reply, nil
}

func toChatMessage(msg domain.Message) chatgpt.Message {
	out := chatgpt.Message{
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, chatgpt.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: chatgpt.ToolCallDefinition{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}
	return out
}

var _ domain.Client = (*ChatGPTLLM)(nil)
