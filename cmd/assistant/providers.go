package main

import (
	"context"
	"log/slog"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
	"github.com/yanqian/stay-assistant/internal/domain/llm"
	"github.com/yanqian/stay-assistant/internal/infra/config"
	"github.com/yanqian/stay-assistant/internal/infra/hotelclient"
	infrallm "github.com/yanqian/stay-assistant/internal/infra/llm"
	"github.com/yanqian/stay-assistant/internal/infra/llm/chatgpt"
	"github.com/yanqian/stay-assistant/internal/infra/reviews"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
	"github.com/yanqian/stay-assistant/internal/infra/weather/openmeteo"
	"github.com/yanqian/stay-assistant/pkg/logger"
)

func provideLogger() *slog.Logger {
	return logger.New("stay-assistant")
}

func provideTelemetry(cfg *config.Config, log *slog.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.Setup(context.Background(), "stay-assistant", cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	log.Info("telemetry configured", "exporter", cfg.Telemetry.Exporter)
	return provider, nil
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		ClassifierPrompt:  cfg.Assistant.ClassifierPrompt,
		ExtractorPrompt:   cfg.Assistant.ExtractorPrompt,
		WeatherPrompt:     cfg.Assistant.WeatherPrompt,
		RankingPrompt:     cfg.Assistant.RankingPrompt,
		Ratings:           cfg.Assistant.Ratings,
		TestHotelPrefixes: cfg.Assistant.TestHotelPrefixes,
		ReviewCorpus:      cfg.Assistant.ReviewCorpus,
		MaxReviewTokens:   cfg.Assistant.MaxReviewTokens,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideLLM(cfg *config.Config, client *chatgpt.Client) llm.Client {
	return infrallm.NewChatGPTLLM(client, cfg.LLM.Model, cfg.LLM.Temperature)
}

func provideWeatherClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideToolRegistry(weather *openmeteo.Client) (*assistant.ToolRegistry, error) {
	return assistant.NewToolRegistry(assistant.NewWeatherForecastTool(weather))
}

func provideHotelSearcher(cfg *config.Config) *hotelclient.Client {
	return hotelclient.NewClient(cfg.Assistant.HotelServiceURL, cfg.Assistant.HotelTimeout)
}

func provideReviewLoader(cfg *config.Config, log *slog.Logger) (*reviews.Loader, error) {
	if !cfg.Storage.Enabled() {
		return reviews.NewLoader(nil), nil
	}
	store, err := reviews.NewMinioStore(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Region)
	if err != nil {
		return nil, err
	}
	return reviews.NewLoader(reviews.NewObjectLoader(store, log)), nil
}

// provideTokenCounter disables the review budget when no encoding can be loaded.
func provideTokenCounter(cfg *config.Config, log *slog.Logger) assistant.TokenCounter {
	if cfg.Assistant.MaxReviewTokens <= 0 {
		return nil
	}
	counter, err := infrallm.NewTiktokenCounter(cfg.LLM.Model)
	if err != nil {
		log.Warn("token counter unavailable, review budget disabled", "error", err)
		return nil
	}
	return counter
}
