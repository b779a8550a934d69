package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yanqian/stay-assistant/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/", handler.Root)
	router.GET("/healthz", handler.Healthz)
	lookups := router.Group("/hotels")
	{
		lookups.GET("", handler.SearchHotels)
		lookups.GET("/city/:city", handler.CityCode)
		lookups.GET("/id/:hotel_id", handler.HotelByID)
		lookups.GET("/review/:hotel_id", handler.HotelReview)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        otelhttp.NewHandler(router, "stay-lookup", otelhttp.WithSpanNameFormatter(spanName)),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}
