//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/stay-assistant/internal/bootstrap"
	"github.com/yanqian/stay-assistant/internal/domain/hotels"
	"github.com/yanqian/stay-assistant/internal/infra/config"
	"github.com/yanqian/stay-assistant/internal/infra/travelapi"
	httpiface "github.com/yanqian/stay-assistant/internal/interface/http"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.LoadLookup,
		provideLogger,
		provideTelemetry,
		provideTravelClient,
		wire.Bind(new(hotels.TravelAPI), new(*travelapi.Client)),
		hotels.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
