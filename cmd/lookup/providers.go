package main

import (
	"context"
	"log/slog"

	"github.com/yanqian/stay-assistant/internal/infra/config"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
	"github.com/yanqian/stay-assistant/internal/infra/travelapi"
	"github.com/yanqian/stay-assistant/pkg/logger"
)

func provideLogger() *slog.Logger {
	return logger.New("stay-lookup")
}

func provideTelemetry(cfg *config.Config, log *slog.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.Setup(context.Background(), "stay-lookup", cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	log.Info("telemetry configured", "exporter", cfg.Telemetry.Exporter)
	return provider, nil
}

func provideTravelClient(cfg *config.Config) *travelapi.Client {
	return travelapi.NewClient(travelapi.Config{
		TokenURL:     cfg.Travel.TokenURL,
		BaseURL:      cfg.Travel.BaseURL,
		ReviewURL:    cfg.Travel.ReviewURL,
		ClientID:     cfg.Travel.ClientID,
		ClientSecret: cfg.Travel.ClientSecret,
		Timeout:      cfg.Travel.Timeout,
	})
}
