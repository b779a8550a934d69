package bootstrap

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
)

// CLI reads one request line and runs the search pipeline on it.
type CLI struct {
	pipeline  assistant.Pipeline
	in        io.Reader
	out       io.Writer
	logger    *slog.Logger
	telemetry *telemetry.Provider
}

// NewCLI is used by Wire to build the assistant command.
func NewCLI(pipeline assistant.Pipeline, logger *slog.Logger, tel *telemetry.Provider) *CLI {
	return &CLI{pipeline: pipeline, in: os.Stdin, out: os.Stdout, logger: logger.With("component", "bootstrap.cli"), telemetry: tel}
}

// Run blocks until the pipeline finishes for the first input line.
func (c *CLI) Run(ctx context.Context) error {
	defer c.flush()
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read request: %w", err)
	}
	text := strings.TrimSpace(line)
	if text == "" {
		return errors.New("no request text on standard input")
	}
	c.logger.Info("request received", "text", text)

	result, err := c.pipeline.Run(ctx, text)
	if err != nil {
		c.logger.Error("search failed", "error", err)
		return err
	}
	if result == nil {
		c.logger.Info("request declined: only accommodation searches are supported")
		return nil
	}

	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	c.logger.Info("search complete", "run_id", result.RunID, "hotels", len(result.TopHotels))
	return nil
}

func (c *CLI) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.telemetry.Shutdown(ctx); err != nil {
		c.logger.Warn("telemetry shutdown failed", "error", err)
	}
}
