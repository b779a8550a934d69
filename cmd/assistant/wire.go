//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/stay-assistant/internal/bootstrap"
	"github.com/yanqian/stay-assistant/internal/domain/assistant"
	"github.com/yanqian/stay-assistant/internal/infra/config"
	"github.com/yanqian/stay-assistant/internal/infra/hotelclient"
	"github.com/yanqian/stay-assistant/internal/infra/reviews"
)

func initializeCLI() (*bootstrap.CLI, error) {
	wire.Build(
		config.LoadAssistant,
		provideLogger,
		provideTelemetry,
		provideAssistantConfig,
		provideChatGPTClient,
		provideLLM,
		provideWeatherClient,
		provideToolRegistry,
		provideHotelSearcher,
		provideReviewLoader,
		provideTokenCounter,
		assistant.NewIntentClassifier,
		assistant.NewSlotExtractor,
		assistant.NewWeatherBriefer,
		assistant.NewHotelRanker,
		assistant.NewPipeline,
		wire.Bind(new(assistant.HotelSearcher), new(*hotelclient.Client)),
		wire.Bind(new(assistant.ReviewLoader), new(*reviews.Loader)),
		bootstrap.NewCLI,
	)
	return nil, nil
}
