package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
)

type stubPipeline struct {
	result *assistant.Result
	err    error
	text   string
	calls  int
}

func (s *stubPipeline) Run(ctx context.Context, text string) (*assistant.Result, error) {
	s.calls++
	s.text = text
	_, span := otel.Tracer("bootstrap_test").Start(ctx, "pipeline")
	span.End()
	return s.result, s.err
}

type recordingExporter struct {
	exported int
	shutdown bool
}

func (e *recordingExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.exported += len(spans)
	return nil
}

func (e *recordingExporter) Shutdown(ctx context.Context) error {
	e.shutdown = true
	return nil
}

func newTestCLI(pipeline assistant.Pipeline, input string) (*CLI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cli := NewCLI(pipeline, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	cli.in = strings.NewReader(input)
	cli.out = out
	return cli, out
}

func TestCLIRunsFirstLine(t *testing.T) {
	pipeline := &stubPipeline{result: &assistant.Result{
		RunID:          "run-1",
		Stay:           assistant.StayRequest{City: assistant.KnownSlot("Singapore")},
		WeatherSummary: "Dry.",
	}}
	cli, out := newTestCLI(pipeline, "Hotel in Singapore next week\nignored second line\n")

	require.NoError(t, cli.Run(context.Background()))
	require.Equal(t, "Hotel in Singapore next week", pipeline.text)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "Dry.", got["weather_summary"])
	require.Nil(t, got["stay"].(map[string]any)["start_date"])
}

func TestCLIDeclineWritesNothing(t *testing.T) {
	pipeline := &stubPipeline{}
	cli, out := newTestCLI(pipeline, "What is the capital of France?")

	require.NoError(t, cli.Run(context.Background()))
	require.Equal(t, 1, pipeline.calls)
	require.Zero(t, out.Len())
}

func TestCLIReportsFailures(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("boom")}
	cli, _ := newTestCLI(pipeline, "hotel")
	require.Error(t, cli.Run(context.Background()))

	empty := &stubPipeline{}
	cli, _ = newTestCLI(empty, "\n")
	require.Error(t, cli.Run(context.Background()))
	require.Zero(t, empty.calls)
}

func TestCLIFlushesTelemetryOnExit(t *testing.T) {
	exporter := &recordingExporter{}
	provider, err := telemetry.NewProvider("bootstrap-test", exporter, 1)
	require.NoError(t, err)

	cli := NewCLI(&stubPipeline{}, slog.New(slog.NewTextHandler(io.Discard, nil)), provider)
	cli.in = strings.NewReader("What is the capital of France?")
	cli.out = &bytes.Buffer{}

	require.NoError(t, cli.Run(context.Background()))
	require.True(t, exporter.shutdown)
	require.Equal(t, 1, exporter.exported)
}
