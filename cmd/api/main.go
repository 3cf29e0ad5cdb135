package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/litpass/internal/adapters/geoapify"
	"github.com/samirrijal/litpass/internal/adapters/http"
	"github.com/samirrijal/litpass/internal/adapters/maps"
	"github.com/samirrijal/litpass/internal/adapters/memory"
	natsadapter "github.com/samirrijal/litpass/internal/adapters/nats"
	"github.com/samirrijal/litpass/internal/adapters/valkey"
	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/core/usecases"
	"github.com/samirrijal/litpass/internal/pkg/config"
	"github.com/samirrijal/litpass/internal/pkg/logging"
	"github.com/samirrijal/litpass/internal/pkg/telemetry"
)

const (
	sessionIdle  = 2 * time.Hour
	sessionSweep = 10 * time.Minute
)

func main() {
	cfg, err := config.Load("litpass-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, "litpass-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Places provider
	client := geoapify.NewClient(cfg.Places.APIKey,
		geoapify.WithBaseURL(cfg.Places.BaseURL),
		geoapify.WithTileURL(cfg.Map.TileURL),
		geoapify.WithTimeout(time.Duration(cfg.Places.TimeoutSeconds)*time.Second),
		geoapify.WithRateLimit(cfg.Places.RateLimit),
		geoapify.WithDefaultLimit(cfg.Places.DefaultLimit),
		geoapify.WithLogger(slog.Default().With("component", "geoapify")),
	)

	// Cache and history: valkey when reachable, memory otherwise
	var (
		provider ports.PlacesProvider = client
		history  ports.HistoryStore
	)
	historyTTL := time.Duration(cfg.History.TTLHours) * time.Hour
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, history kept in memory", "error", err)
		history = memory.NewHistoryStore(cfg.History.MaxEntries)
	} else {
		defer cache.Close()
		provider = usecases.NewCachedGeocoder(client, cache)
		history = valkey.NewHistoryStore(cache.Client(), cfg.History.MaxEntries, historyTTL)
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Use cases
	suggestionSvc := usecases.NewSuggestionService(history, usecases.SystemClock{})
	placeSvc := usecases.NewPlaceService(provider, suggestionSvc, slog.Default())
	categorySvc := usecases.NewCategoryService(provider, slog.Default())
	shareSvc := usecases.NewShareService(provider, publisher, usecases.SystemClock{}, slog.Default())

	fallback := domain.Coordinates{Lat: cfg.Origin.DefaultLat, Lon: cfg.Origin.DefaultLon}
	sessions := http.NewSessions(func(id string, locator ports.DeviceLocator) *usecases.LocationResolver {
		opts := []usecases.ResolverOption{usecases.WithLocator(locator)}
		if publisher != nil {
			opts = append(opts, usecases.WithPublisher(publisher))
		}
		return usecases.NewLocationResolver(id, provider, fallback, cfg.Origin.DefaultLabel, opts...)
	})
	go sessions.RunSweeper(ctx, sessionSweep, sessionIdle)

	deps := &http.Dependencies{
		Places:      placeSvc,
		Categories:  categorySvc,
		Suggestions: suggestionSvc,
		Share:       shareSvc,
		Provider:    provider,
		Sessions:    sessions,
		Autocomplete: usecases.AutocompleteConfig{
			Debounce: time.Duration(cfg.Autocomplete.DebounceMS) * time.Millisecond,
			MinChars: cfg.Autocomplete.MinChars,
		},
		Map: http.MapSettings{
			TileURL:     client.TileTemplate(),
			Attribution: cfg.Map.Attribution,
			DefaultZoom: cfg.Map.DefaultZoom,
		},
		NATS:  natsConn,
		Cache: cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		Immutable:    true,
		AppName:      "LitPass API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:8081, http://localhost:19006, https://*.litpass.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, " + http.SessionHeader,
		ExposeHeaders:    http.SessionHeader,
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "map_backend", maps.Backend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
