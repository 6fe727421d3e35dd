package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/asutoshsabat91/adventureos/internal/aggregator"
	"github.com/asutoshsabat91/adventureos/internal/cache"
	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/config"
	"github.com/asutoshsabat91/adventureos/internal/handler"
	"github.com/asutoshsabat91/adventureos/internal/obs"
	"github.com/asutoshsabat91/adventureos/internal/providers"
	"github.com/asutoshsabat91/adventureos/internal/ratelimit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load(logger)
	metrics := obs.NewMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	newStore := func(prefix string) cache.Store {
		if !cfg.CacheEnabled {
			return cache.NewNoOp()
		}
		if cfg.RedisEnabled {
			store, err := cache.NewRedis(cache.RedisConfig{
				Host: cfg.RedisHost,
				Port: cfg.RedisPort,
				TTL:  cfg.CacheTTL,
			})
			if err != nil {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			logger.Info("redis cache enabled", "prefix", prefix, "host", cfg.RedisHost, "ttl", cfg.CacheTTL)
			return store
		}
		return cache.NewMemory(cfg.CacheTTL)
	}

	flightClient := client.New(client.Config{
		Name:        "skyscanner",
		BaseURL:     cfg.Flights.BaseURL,
		APIKey:      cfg.Flights.APIKey,
		Headers:     map[string]string{"X-Gateway-Key": cfg.FlightGateway},
		MaxRequests: cfg.Flights.MaxRequests,
		Window:      cfg.Flights.Window,
		Cache:       newStore("skyscanner"),
		Logger:      logger,
	})
	stayClient := client.New(client.Config{
		Name:        "hostelworld",
		BaseURL:     cfg.Stays.BaseURL,
		APIKey:      cfg.Stays.APIKey,
		MaxRequests: cfg.Stays.MaxRequests,
		Window:      cfg.Stays.Window,
		Cache:       newStore("hostelworld"),
		Logger:      logger,
	})
	tourClient := client.New(client.Config{
		Name:        "tourradar",
		BaseURL:     cfg.Tours.BaseURL,
		APIKey:      cfg.Tours.APIKey,
		MaxRequests: cfg.Tours.MaxRequests,
		Window:      cfg.Tours.Window,
		Cache:       newStore("tourradar"),
		Logger:      logger,
	})
	weatherClient := client.New(client.Config{
		Name:        "openweathermap",
		BaseURL:     cfg.Weather.BaseURL,
		APIKey:      cfg.Weather.APIKey,
		MaxRequests: cfg.Weather.MaxRequests,
		Window:      cfg.Weather.Window,
		Cache:       newStore("openweathermap"),
		Logger:      logger,
	})
	defer flightClient.Close()
	defer stayClient.Close()
	defer tourClient.Close()
	defer weatherClient.Close()

	flights := providers.NewFlightProvider(flightClient, logger)
	stays := providers.NewAccommodationProvider(stayClient, logger)
	tours := providers.NewActivityProvider(tourClient, logger)
	weather := providers.NewWeatherProvider(weatherClient, logger)

	compositeStore := newStore("aggregator")
	agg := aggregator.New(aggregator.Config{
		Weather:        weather,
		Flights:        flights,
		Accommodations: stays,
		Activities:     tours,
		Cache:          compositeStore,
		Metrics:        metrics,
		Logger:         logger,
		Timeout:        60 * time.Second,
	})

	// The admin cache surface spans every store, not just the composite.
	caches := cache.NewGroup()
	caches.Register("comprehensive", compositeStore)
	caches.Register("skyscanner", flightClient.Cache())
	caches.Register("hostelworld", stayClient.Cache())
	caches.Register("tourradar", tourClient.Cache())
	caches.Register("openweathermap", weatherClient.Cache())

	h := handler.New(agg, flights, stays, tours, weather, caches, metrics)

	ipLimiter := ratelimit.NewIPLimiter(cfg.IPRateLimit, cfg.IPRateBurst)

	api := e.Group("/api/v1", handler.RateLimitMiddleware(ipLimiter, metrics))
	h.Register(api)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	logger.Info("starting travel aggregation server", "port", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
