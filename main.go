package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/serisow/glowpress/config"
	"github.com/serisow/glowpress/handlers"
	"github.com/serisow/glowpress/history"
	"github.com/serisow/glowpress/logging"
	"github.com/serisow/glowpress/oauth"
	"github.com/serisow/glowpress/pipeline"
	"github.com/serisow/glowpress/plugin_registry"
	"github.com/serisow/glowpress/scheduler"
	"github.com/serisow/glowpress/server"
	"github.com/serisow/glowpress/services/action_service"
	"github.com/serisow/glowpress/services/image_service"
	"github.com/serisow/glowpress/services/llm_service"
	"github.com/serisow/glowpress/services/trend_service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	tokens := oauth.NewGoogleTokenSource(
		cfg.BloggerClientID,
		cfg.BloggerClientSecret,
		cfg.BloggerRefreshToken,
		cfg.TokenCachePath,
		logger,
	)

	registry := plugin_registry.NewPluginRegistry()
	bloggerService := registerServices(registry, cfg, tokens, logger)

	store := history.NewStore()

	if cfg.ScheduleEnabled {
		s := scheduler.New(cfg, registry, logger, store)
		go s.Start(context.Background())
	}

	// Retain finished execution results for a day, sweep hourly.
	pipeline.StartExecutionStoreCleanup(24*time.Hour, time.Hour)

	postHandler := handlers.NewPostHandler(cfg, registry, logger, store, bloggerService)
	r := server.SetupRoutes(postHandler)
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg.Domains, cfg.CertCacheDir)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()
	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())
	n.UseHandler(r)
	return n
}

// registerServices wires every pluggable service into the registry and
// returns the Blogger publish service, which the HTTP handler also uses
// directly for re-publishing history entries.
func registerServices(registry *plugin_registry.PluginRegistry, cfg config.Config, tokens oauth.TokenSource, logger *slog.Logger) *action_service.BloggerPublishActionService {
	// LLM services
	registry.RegisterLLMService("groq", llm_service.NewGroqService(logger))
	if cfg.OpenAIAPIKey != "" {
		registry.RegisterLLMService("openai", llm_service.NewOpenAIService(logger))
	}

	// Image services
	registry.RegisterImageService("pexels", image_service.NewPexelsService(cfg.PexelsAPIKey, logger))
	if cfg.ImageGenAPIURL != "" {
		registry.RegisterImageService("generation", image_service.NewGenerationService(
			cfg.ImageGenAPIURL,
			cfg.ImageGenAPIKey,
			cfg.ImageGenPollDelay,
			cfg.ImageGenMaxPolls,
			logger,
		))
	}

	// Trend sources
	registry.RegisterTrendService("google_trends", trend_service.NewGoogleTrendsService(cfg.TrendsFeedURL, logger))
	if cfg.TrendsBoardURL != "" {
		registry.RegisterTrendService("board", trend_service.NewBoardScrapeService(cfg.TrendsBoardURL, logger))
	}

	// Action services
	bloggerService := action_service.NewBloggerPublishActionService(cfg.BloggerBlogID, tokens, logger)
	registry.RegisterActionService("blogger_publish", bloggerService)
	registry.RegisterActionService("tweet_promotion", action_service.NewTweetPromotionActionService(logger))
	registry.RegisterActionService("sms_notify", action_service.NewSMSNotifyActionService(logger))

	return bloggerService
}

func initLogger() (*slog.Logger, error) {
	logDir := filepath.Join("logs", "glowpress")

	fileHandler, err := logging.NewDailyFileHandler(logDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}

	return slog.New(fileHandler), nil
}
