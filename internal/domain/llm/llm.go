// Package llm defines the structured-completion capability the assistant depends on.
// Backends live under internal/infra/llm.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yanqian/stay-assistant/pkg/metrics"
)

// Roles used in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one conversation turn.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolDeclaration describes a callable function offered to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a model request to execute a declared tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Schema constrains the reply to a JSON document.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Request is a single completion round.
type Request struct {
	Messages []Message
	Tools    []ToolDeclaration
	Schema   *Schema
}

// Reply is either a final message or a set of tool-invocation requests.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
	Usage     metrics.TokenUsage
}

// Client is the single pluggable capability: text/schema in, structured value or tool calls out.
type Client interface {
	Complete(ctx context.Context, req Request) (Reply, error)
}

// ErrMalformedReply reports a reply that does not conform to the requested schema.
var ErrMalformedReply = errors.New("malformed structured reply")

// Structured runs a system+user exchange constrained by schema and decodes the reply into out.
func Structured(ctx context.Context, client Client, systemPrompt, userPrompt string, schema Schema, out any) (metrics.TokenUsage, error) {
	reply, err := client.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
		Schema: &schema,
	})
	if err != nil {
		return metrics.TokenUsage{}, err
	}
	if len(reply.ToolCalls) > 0 {
		return reply.Usage, fmt.Errorf("%w: unexpected tool calls", ErrMalformedReply)
	}
	if err := Decode(reply.Content, out); err != nil {
		return reply.Usage, err
	}
	return reply.Usage, nil
}

// Decode parses a JSON reply, tolerating markdown code fences around it.
func Decode(raw string, out any) error {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		return fmt.Errorf("%w: empty content", ErrMalformedReply)
	}
	if err := json.Unmarshal([]byte(sanitized), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}

// ObjectSchema builds a closed JSON object schema where every property is required.
func ObjectSchema(properties map[string]any) map[string]any {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	sort.Strings(required)
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

