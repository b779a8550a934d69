package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/stay-assistant/internal/domain/llm"
	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
	"github.com/yanqian/stay-assistant/pkg/util"
)

const defaultExtractorPrompt = "You are an assistant for finding accomodation. " +
	"Extract the name of the city/place in which the user wishes to stay. " +
	"Extract the check-in date, the date on which the user will start staying in the accomodation. " +
	"Extract the check-out date, the date on which the user will leave the accomodation. " +
	"Strictly use 'yyyy-mm-dd' date format. " +
	"If a value is not present in the text, return null for it. " +
	"Do not make any assumptions for the city, check-in date and check-out date."

// Placeholders some models emit instead of null.
var absentMarkers = map[string]struct{}{
	"":        {},
	"[none]":  {},
	"none":    {},
	"null":    {},
	"n/a":     {},
	"unknown": {},
}

var stayNullableString = []string{"string", "null"}

var staySchema = llm.Schema{
	Name: "stay_details",
	Definition: llm.ObjectSchema(map[string]any{
		"city": map[string]any{
			"type":        stayNullableString,
			"description": "City in which the accomodation should be booked",
		},
		"start_date": map[string]any{
			"type":        stayNullableString,
			"description": "Check-in date formatted as yyyy-mm-dd, for example 2025-03-25",
		},
		"end_date": map[string]any{
			"type":        stayNullableString,
			"description": "Check-out date formatted as yyyy-mm-dd, for example 2025-03-28",
		},
	}),
}

// SlotExtractor parses trip parameters out of free text.
type SlotExtractor interface {
	Extract(ctx context.Context, text string, referenceDate time.Time) (StayRequest, error)
}

type slotExtractor struct {
	prompt string
	client llm.Client
	logger *slog.Logger
}

// NewSlotExtractor wires the extractor to the completion capability.
func NewSlotExtractor(cfg Config, client llm.Client, logger *slog.Logger) SlotExtractor {
	prompt := strings.TrimSpace(cfg.ExtractorPrompt)
	if prompt == "" {
		prompt = defaultExtractorPrompt
	}
	return &slotExtractor{prompt: prompt, client: client, logger: logger.With("component", "assistant.slots")}
}

func (e *slotExtractor) Extract(ctx context.Context, text string, referenceDate time.Time) (StayRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return StayRequest{}, apperrors.Wrap("invalid_input", "text cannot be empty", nil)
	}

	var out struct {
		City      *string `json:"city"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
	}
	usage, err := llm.Structured(ctx, e.client, e.systemPrompt(referenceDate), text, staySchema, &out)
	if err != nil {
		return StayRequest{}, apperrors.Wrap("llm_error", "slot extraction failed", err)
	}
	e.logger.Debug("slots extracted", "total_tokens", usage.TotalTokens)

	return StayRequest{
		City:      citySlot(out.City),
		StartDate: e.dateSlot("start_date", out.StartDate),
		EndDate:   e.dateSlot("end_date", out.EndDate),
	}, nil
}

func (e *slotExtractor) systemPrompt(referenceDate time.Time) string {
	hint := fmt.Sprintf(" Today is %s (%s); resolve relative dates such as 'next Tuesday' against it.",
		referenceDate.Format(util.DateLayout), referenceDate.Weekday())
	return e.prompt + hint
}

func citySlot(raw *string) Slot {
	if isAbsent(raw) {
		return UnknownSlot()
	}
	return KnownSlot(strings.TrimSpace(*raw))
}

func (e *slotExtractor) dateSlot(name string, raw *string) Slot {
	if isAbsent(raw) {
		return UnknownSlot()
	}
	value := strings.TrimSpace(*raw)
	if !util.IsISODate(value) {
		e.logger.Warn("discarding unparseable date slot", "slot", name, "value", value)
		return UnknownSlot()
	}
	return KnownSlot(value)
}

func isAbsent(raw *string) bool {
	if raw == nil {
		return true
	}
	_, marker := absentMarkers[strings.ToLower(strings.TrimSpace(*raw))]
	return marker
}
