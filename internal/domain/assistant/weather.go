package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

const defaultWeatherPrompt = "You are a travel weather assistant. Use the get_weather_forecast tool to fetch the forecast " +
	"for the requested city and dates, using the city's latitude and longitude. " +
	"Then write a short natural language summary of temperature, humidity and rain for the stay. " +
	"If the tool reports an error, say that the forecast is unavailable."

var weatherReportSchema = llm.Schema{
	Name: "weather_response",
	Definition: llm.ObjectSchema(map[string]any{
		"weather_report": map[string]any{
			"type":        "string",
			"description": "A text summary on the weather in natural language based on the weather forecast data",
		},
	}),
}

// BriefState tracks progress through the tool-augmented dialogue.
type BriefState int

const (
	StateAwaitingToolCall BriefState = iota
	StateToolExecuted
	StateSummaryReady
)

func (s BriefState) String() string {
	switch s {
	case StateAwaitingToolCall:
		return "awaiting_tool_call"
	case StateToolExecuted:
		return "tool_executed"
	case StateSummaryReady:
		return "summary_ready"
	default:
		return "unknown"
	}
}

// WeatherBrief is the outcome of the summarization dialogue.
type WeatherBrief struct {
	Summary     string
	State       BriefState
	ToolResults []string
}

// WeatherBriefer produces a natural language forecast summary for a stay.
type WeatherBriefer interface {
	Summarize(ctx context.Context, stay StayRequest) (WeatherBrief, error)
}

type weatherBriefer struct {
	prompt   string
	client   llm.Client
	registry *ToolRegistry
	logger   *slog.Logger
}

// NewWeatherBriefer wires the orchestrator with a fixed tool registry.
func NewWeatherBriefer(cfg Config, client llm.Client, registry *ToolRegistry, logger *slog.Logger) WeatherBriefer {
	prompt := strings.TrimSpace(cfg.WeatherPrompt)
	if prompt == "" {
		prompt = defaultWeatherPrompt
	}
	return &weatherBriefer{
		prompt:   prompt,
		client:   client,
		registry: registry,
		logger:   logger.With("component", "assistant.weather"),
	}
}

func (b *weatherBriefer) Summarize(ctx context.Context, stay StayRequest) (WeatherBrief, error) {
	if !stay.Complete() {
		return WeatherBrief{}, apperrors.Wrap("incomplete_request", "stay is missing "+strings.Join(stay.Missing(), ", "), nil)
	}

	brief := WeatherBrief{State: StateAwaitingToolCall}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: b.prompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("weather forecast for %s between %s/%s", stay.City.Value, stay.StartDate.Value, stay.EndDate.Value)},
	}

	reply, err := b.client.Complete(ctx, llm.Request{Messages: messages, Tools: b.registry.Declarations()})
	if err != nil {
		return WeatherBrief{}, apperrors.Wrap("llm_error", "weather tool request failed", err)
	}
	if reply.Content != "" || len(reply.ToolCalls) > 0 {
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: reply.Content, ToolCalls: reply.ToolCalls})
	}

	for _, call := range reply.ToolCalls {
		result, err := b.registry.Dispatch(ctx, call)
		if err != nil {
			return WeatherBrief{}, err
		}
		b.logger.Info("tool executed", "tool", call.Name, "call_id", call.ID, "arguments", call.Arguments)
		messages = append(messages, llm.Message{Role: llm.RoleTool, ToolCallID: call.ID, Content: result})
		brief.ToolResults = append(brief.ToolResults, result)
	}
	if len(reply.ToolCalls) > 0 {
		brief.State = StateToolExecuted
	}

	final, err := b.client.Complete(ctx, llm.Request{Messages: messages, Schema: &weatherReportSchema})
	if err != nil {
		return WeatherBrief{}, apperrors.Wrap("llm_error", "weather summary request failed", err)
	}
	if len(final.ToolCalls) > 0 {
		return WeatherBrief{}, apperrors.Wrap("llm_error", "chatgpt requested unexpected additional tool calls", nil)
	}
	var out struct {
		WeatherReport string `json:"weather_report"`
	}
	if err := llm.Decode(final.Content, &out); err != nil {
		return WeatherBrief{}, apperrors.Wrap("llm_error", "weather summary malformed", err)
	}
	if strings.TrimSpace(out.WeatherReport) == "" {
		return WeatherBrief{}, apperrors.Wrap("llm_error", "weather summary missing", llm.ErrMalformedReply)
	}

	brief.Summary = strings.TrimSpace(out.WeatherReport)
	brief.State = StateSummaryReady
	b.logger.Debug("weather summary ready", "tool_calls", len(reply.ToolCalls),
		"total_tokens", reply.Usage.Add(final.Usage).TotalTokens)
	return brief, nil
}
