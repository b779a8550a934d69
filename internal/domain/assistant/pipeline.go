package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/yanqian/stay-assistant/pkg/errors"
	"github.com/yanqian/stay-assistant/pkg/util"
)

var tracer = otel.Tracer("github.com/yanqian/stay-assistant/internal/domain/assistant")

// Pipeline runs classify -> extract -> weather brief -> ranking for one user text.
type Pipeline interface {
	Run(ctx context.Context, text string) (*Result, error)
}

type pipeline struct {
	cfg        Config
	classifier IntentClassifier
	extractor  SlotExtractor
	briefer    WeatherBriefer
	ranker     HotelRanker
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline wires the sequential search pipeline.
func NewPipeline(cfg Config, classifier IntentClassifier, extractor SlotExtractor, briefer WeatherBriefer, ranker HotelRanker, logger *slog.Logger) Pipeline {
	return &pipeline{
		cfg:        cfg,
		classifier: classifier,
		extractor:  extractor,
		briefer:    briefer,
		ranker:     ranker,
		logger:     logger.With("component", "assistant.pipeline"),
		now:        time.Now,
	}
}

// Run returns (nil, nil) when the text is not an accommodation search.
func (p *pipeline) Run(ctx context.Context, text string) (result *Result, err error) {
	runID := uuid.NewString()
	ctx = util.WithRequestID(ctx, runID)
	ctx, span := tracer.Start(ctx, "assistant.pipeline")
	span.SetAttributes(attribute.String("run_id", runID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.CodeOf(err))
		}
		span.End()
	}()

	logger := p.logger.With("run_id", runID)
	if sc := span.SpanContext(); sc.IsValid() {
		logger = logger.With("trace_id", sc.TraceID().String())
	}

	logger.Info("checking if prompt is an accommodation search")
	isSearch, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	if !isSearch {
		logger.Info("not an accommodation search, declining")
		return nil, nil
	}

	logger.Info("extracting stay details")
	stay, err := p.extractor.Extract(ctx, text, p.now())
	if err != nil {
		return nil, err
	}
	logger.Info("stay details", "city", stay.City.String(), "start_date", stay.StartDate.String(), "end_date", stay.EndDate.String())
	if missing := stay.Missing(); len(missing) > 0 {
		return nil, apperrors.Wrap("incomplete_request", "could not determine "+strings.Join(missing, ", ")+" from the request", nil)
	}

	logger.Info("summarizing weather forecast", "city", stay.City.Value)
	brief, err := p.briefer.Summarize(ctx, stay)
	if err != nil {
		return nil, err
	}
	logger.Info("weather summary", "state", brief.State.String(), "summary", brief.Summary)

	logger.Info("ranking hotels", "city", stay.City.Value)
	rankings, err := p.ranker.Rank(ctx, stay.City.Value, p.cfg.ReviewCorpus)
	if err != nil {
		return nil, err
	}
	for _, hotel := range rankings.Hotels {
		logger.Info("ranked hotel", "rank", hotel.Rank, "hotel", hotel.HotelName, "reason", hotel.Reason)
	}

	return &Result{
		RunID:          runID,
		Stay:           stay,
		WeatherSummary: brief.Summary,
		TopHotels:      rankings.Hotels,
	}, nil
}
