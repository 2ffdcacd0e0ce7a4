package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"smallbiz-billing/internal/config"
	"smallbiz-billing/internal/domain/ports/adapter"
	"smallbiz-billing/internal/infra/ai"
	"smallbiz-billing/internal/infra/api"
	pg "smallbiz-billing/internal/infra/db/postgres"
	"smallbiz-billing/internal/infra/email"
	"smallbiz-billing/internal/infra/logging"
	"smallbiz-billing/internal/infra/metrics"
	"smallbiz-billing/internal/infra/notify"
	"smallbiz-billing/internal/infra/payment"
	red "smallbiz-billing/internal/infra/redis"
	"smallbiz-billing/internal/infra/sched"
	"smallbiz-billing/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Secrets may sit in a local .env in development; missing file is fine.
	_ = godotenv.Load()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	if err := pg.Migrate(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	profileRepo := pg.NewProfileRepoCacheDecorator(pg.NewProfileRepo(pool), redisClient, cfg.Redis.TTL)
	invoiceRepo := pg.NewInvoiceRepo(pool)

	// ---- Adapters ----
	gateway := payment.NewPaystackDirectGateway(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)
	mailer := email.NewHTTPMailer(&cfg.Email)

	notifier, err := notify.NewOperatorNotifier(mailer, &cfg.Billing, &cfg.Telegram, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier init failed")
	}

	// ---- AI adapter (OpenAI -> Gemini) ----
	var insightModel adapter.InsightModel
	switch {
	case cfg.AI.OpenAIKey != "":
		insightModel, err = ai.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter init failed")
		}
	case cfg.AI.GeminiKey != "":
		insightModel, err = ai.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter init failed")
		}
	default:
		logger.Warn().Msg("no AI provider configured; insights endpoint will be unavailable")
	}

	// ---- Use cases ----
	billingUC := usecase.NewBillingUseCase(paymentRepo, profileRepo, gateway, notifier, txManager, cfg.Billing, cfg.Paystack.CallbackURL, logger)
	notifUC := usecase.NewNotificationUseCase(profileRepo, invoiceRepo, mailer, logger)
	statsUC := usecase.NewStatsUseCase(paymentRepo, logger)
	insightsUC := usecase.NewInsightsUseCase(profileRepo, paymentRepo, invoiceRepo, insightModel, cfg.AI.MaxPromptTokens, logger)

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.AdminIDs)
	srv := api.NewServer(billingUC, statsUC, insightsUC, auth, cfg.Paystack.SecretKey, cfg.Server.BaseURL, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background workers ----
	reminders := sched.NewReminderWorker(cfg.Sched.ReminderInterval, notifUC, logger)
	go func() { _ = reminders.Run(ctx) }()

	sweeper := sched.NewPaymentSweeper(billingUC, paymentRepo, cfg.Sched.SweepInterval, cfg.Sched.SweepStaleAfter, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Shutdown(context.Background())
}
