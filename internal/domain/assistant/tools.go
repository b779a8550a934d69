package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yanqian/stay-assistant/internal/domain/forecast"
	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

// ToolWeatherForecast is the only tool the weather briefer declares.
const ToolWeatherForecast = "get_weather_forecast"

// ToolHandler executes one declared tool.
type ToolHandler interface {
	Declaration() llm.ToolDeclaration
	Execute(ctx context.Context, arguments string) (any, error)
}

// ToolRegistry is a closed name -> handler mapping fixed at construction.
type ToolRegistry struct {
	handlers     map[string]ToolHandler
	declarations []llm.ToolDeclaration
}

// NewToolRegistry validates and freezes the tool set.
func NewToolRegistry(handlers ...ToolHandler) (*ToolRegistry, error) {
	if len(handlers) == 0 {
		return nil, errors.New("tool registry requires at least one handler")
	}
	reg := &ToolRegistry{handlers: make(map[string]ToolHandler, len(handlers))}
	for _, h := range handlers {
		decl := h.Declaration()
		name := strings.TrimSpace(decl.Name)
		if name == "" {
			return nil, errors.New("tool declaration name cannot be empty")
		}
		if _, dup := reg.handlers[name]; dup {
			return nil, fmt.Errorf("tool %q registered twice", name)
		}
		reg.handlers[name] = h
		reg.declarations = append(reg.declarations, decl)
	}
	return reg, nil
}

// Declarations returns the tool schema offered to the model.
func (r *ToolRegistry) Declarations() []llm.ToolDeclaration {
	out := make([]llm.ToolDeclaration, len(r.declarations))
	copy(out, r.declarations)
	return out
}

// Dispatch runs the handler for call and returns the serialized result.
// Recoverable handler failures are serialized as {"error": ...} payloads.
func (r *ToolRegistry) Dispatch(ctx context.Context, call llm.ToolCall) (string, error) {
	handler, ok := r.handlers[call.Name]
	if !ok {
		return "", apperrors.Wrap("tool_not_registered", fmt.Sprintf("model requested unknown tool %q", call.Name), nil)
	}
	result, err := handler.Execute(ctx, call.Arguments)
	if err != nil {
		payload, recoverable := recoverablePayload(err)
		if !recoverable {
			return "", err
		}
		result = payload
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode %s result: %w", call.Name, err)
	}
	return string(data), nil
}

func recoverablePayload(err error) (any, bool) {
	var incomplete *forecast.IncompleteDataError
	if errors.As(err, &incomplete) {
		return incomplete.Payload(), true
	}
	if apperrors.IsCode(err, "invalid_arguments") {
		return map[string]string{"error": err.Error()}, true
	}
	return nil, false
}

// WeatherClient fetches and aggregates a forecast for the stay window.
type WeatherClient interface {
	FetchDaily(ctx context.Context, latitude, longitude float64, startDate, endDate string) (forecast.Daily, error)
}

type weatherForecastTool struct {
	client WeatherClient
}

// NewWeatherForecastTool exposes the weather client as a callable tool.
func NewWeatherForecastTool(client WeatherClient) ToolHandler {
	return &weatherForecastTool{client: client}
}

func (t *weatherForecastTool) Declaration() llm.ToolDeclaration {
	return llm.ToolDeclaration{
		Name:        ToolWeatherForecast,
		Description: "Get the hourly weather forecast (temperature, humidity, rain) aggregated per day for coordinates and an inclusive date range.",
		Parameters: llm.ObjectSchema(map[string]any{
			"latitude":   map[string]any{"type": "number", "description": "Latitude of the city, -90 to 90"},
			"longitude":  map[string]any{"type": "number", "description": "Longitude of the city, -180 to 180"},
			"start_date": map[string]any{"type": "string", "description": "First day, yyyy-mm-dd"},
			"end_date":   map[string]any{"type": "string", "description": "Last day, yyyy-mm-dd"},
		}),
	}
}

type weatherArguments struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
}

func (t *weatherForecastTool) Execute(ctx context.Context, arguments string) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(arguments)))
	decoder.DisallowUnknownFields()
	var args weatherArguments
	if err := decoder.Decode(&args); err != nil {
		return nil, apperrors.Wrap("invalid_arguments", "tool arguments malformed", err)
	}
	if args.Latitude == nil || args.Longitude == nil || args.StartDate == nil || args.EndDate == nil {
		return nil, apperrors.Wrap("invalid_arguments", "latitude, longitude, start_date and end_date are required", nil)
	}
	return t.client.FetchDaily(ctx, *args.Latitude, *args.Longitude, *args.StartDate, *args.EndDate)
}
