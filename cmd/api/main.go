package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/echomi/echomi-ai-platform/internal/api/router"
	"github.com/echomi/echomi-ai-platform/internal/compose"
	appconfig "github.com/echomi/echomi-ai-platform/internal/config"
	"github.com/echomi/echomi-ai-platform/internal/conversation"
	"github.com/echomi/echomi-ai-platform/internal/llm"
	"github.com/echomi/echomi-ai-platform/internal/nav"
	"github.com/echomi/echomi-ai-platform/internal/notify"
	"github.com/echomi/echomi-ai-platform/internal/observability/metrics"
	"github.com/echomi/echomi-ai-platform/internal/orders"
	"github.com/echomi/echomi-ai-platform/internal/session"
	"github.com/echomi/echomi-ai-platform/internal/sms"
	"github.com/echomi/echomi-ai-platform/internal/summary"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

func main() {
	// production supplies real environment variables, .env is for dev
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting echomi API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		store = session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL, nil)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		mem.StartJanitor(ctx, time.Minute)
		store = mem
		logger.Info("using in-memory session store")
	}

	// Order wallet
	var wallet orders.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		wallet = orders.NewPostgresStore(db)
		logger.Info("using postgres order wallet")
	} else {
		wallet = orders.NewMemoryStore()
		logger.Info("using in-memory order wallet")
	}

	// Optional LLM for phrasing and summaries
	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
		logger.Info("LLM phrasing enabled", "model", cfg.GeminiModelID)
	} else {
		logger.Info("LLM phrasing disabled, using templates only")
	}

	// Companion-app backend: SMS inbox and push notifications
	var inbox sms.Source
	var notifier conversation.Notifier
	if cfg.BackendBaseURL != "" {
		httpClient := &http.Client{Timeout: cfg.BackendTimeout}
		inbox = sms.NewClient(cfg.BackendBaseURL, cfg.BackendAPIKey, logger, sms.WithHTTPClient(httpClient))
		dispatcher := notify.NewClient(cfg.BackendBaseURL, cfg.BackendAPIKey, logger, notify.WithHTTPClient(httpClient))
		notifier = notify.NewService(dispatcher, cfg.OwnerPhone, logger)
	} else {
		logger.Warn("no backend configured, OTP lookup and notifications disabled")
	}

	navigator := nav.NewClient(cfg.NavGeocodeURL, cfg.NavRouteURL, logger,
		nav.WithHTTPClient(&http.Client{Timeout: cfg.NavTimeout}))

	callMetrics := metrics.NewCallMetrics(nil)

	engine := conversation.NewEngine(conversation.Deps{
		Store:           store,
		Inbox:           inbox,
		Navigator:       navigator,
		Notifier:        notifier,
		Wallet:          wallet,
		Composer:        compose.New(llmClient, logger),
		Summarizer:      summary.New(llmClient, logger),
		Metrics:         callMetrics,
		Logger:          logger,
		OwnerID:         cfg.OwnerPhone,
		HomeAddress:     cfg.HomeAddress,
		SMSWindow:       cfg.SMSWindowSize,
		MaxRetries:      cfg.MaxClarifyRetries,
		DefaultLanguage: cfg.DefaultLanguage,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		OrdersHandler:       orders.NewHandler(wallet, logger),
		MetricsHandler:      promhttp.Handler(),
		AdminJWTSecret:      cfg.AdminJWTSecret,
		CallToken:           cfg.CallToken,
		TurnRateLimit:       10,
		TurnRateBurst:       20,
		Collaborators: map[string]bool{
			"sms_inbox":       inbox != nil,
			"notifications":   notifier != nil,
			"navigation":      true,
			"gemini":          llmClient != nil,
			"postgres_wallet": cfg.DatabaseURL != "",
			"redis_sessions":  cfg.SessionStore == "redis",
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
