package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
)

const defaultClassifierPrompt = "You are an assistant for finding accomodation. " +
	"You are allowed to answer only to queries related to accomodation search. " +
	"In case of other requests, you must decline. " +
	"In this context, analyze if the text describes a query for finding accomodation. " +
	"Say yes if the text describes a query for finding accomodation, else say no."

var intentSchema = llm.Schema{
	Name: "accomodation_check",
	Definition: llm.ObjectSchema(map[string]any{
		"is_accomodation_search": map[string]any{
			"type":        "boolean",
			"description": "Is the text a query related to finding an accomodation?",
		},
	}),
}

// IntentClassifier decides whether free text is an accommodation search.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (bool, error)
}

type intentClassifier struct {
	prompt string
	client llm.Client
	logger *slog.Logger
}

// NewIntentClassifier wires the classifier to the completion capability.
func NewIntentClassifier(cfg Config, client llm.Client, logger *slog.Logger) IntentClassifier {
	prompt := strings.TrimSpace(cfg.ClassifierPrompt)
	if prompt == "" {
		prompt = defaultClassifierPrompt
	}
	return &intentClassifier{prompt: prompt, client: client, logger: logger.With("component", "assistant.intent")}
}

func (c *intentClassifier) Classify(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, apperrors.Wrap("invalid_input", "text cannot be empty", nil)
	}

	var out struct {
		IsAccomodationSearch *bool `json:"is_accomodation_search"`
	}
	usage, err := llm.Structured(ctx, c.client, c.prompt, text, intentSchema, &out)
	if err != nil {
		return false, apperrors.Wrap("llm_error", "intent classification failed", err)
	}
	if out.IsAccomodationSearch == nil {
		return false, apperrors.Wrap("llm_error", "intent classification malformed", llm.ErrMalformedReply)
	}
	c.logger.Debug("intent classified", "result", *out.IsAccomodationSearch, "total_tokens", usage.TotalTokens)
	return *out.IsAccomodationSearch, nil
}
