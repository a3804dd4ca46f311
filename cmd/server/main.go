package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/api"
	"github.com/edusuite/colegio/internal/app"
	"github.com/edusuite/colegio/internal/config"
	"github.com/edusuite/colegio/internal/db"
	"github.com/edusuite/colegio/internal/export"
	"github.com/edusuite/colegio/internal/jobs"
	"github.com/edusuite/colegio/internal/logging"
	"github.com/edusuite/colegio/internal/metrics"
	"github.com/edusuite/colegio/internal/notify"
	"github.com/edusuite/colegio/internal/observability"
)

var release = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Sugar

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		logger.Warnw("sentry init", "err", err)
	}
	defer closeSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("db connect", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		logger.Fatalw("db migrate", "err", err)
	}

	store := db.NewStore(database)

	var notifier academics.Notifier = notify.NewLogNotifier(logger)
	if cfg.TelegramToken != "" {
		tn, err := notify.NewTelegramNotifier(logger, cfg.TelegramToken, cfg.TelegramAdminIDs, notifier)
		if err != nil {
			logger.Warnw("telegram notifier disabled", "err", err)
		} else {
			notifier = tn
		}
	}

	reports, err := export.NewReports(logger, cfg.ReportsDir)
	if err != nil {
		logger.Fatalw("reports dir", "err", err)
	}

	svc := academics.NewService(logger, store, notifier, reports)

	app.StartHTTP(ctx, cfg.MetricsAddr, database)

	runner := jobs.New(ctx)
	reminder := jobs.NewLockReminder(logger, store, notifier)
	runner.Every(12*time.Hour, "grade-lock-reminder", reminder.Run)
	runner.Every(time.Minute, "db-ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(pingCtx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})

	server := api.New(logger, svc, store)
	go func() {
		<-ctx.Done()
		_ = server.Shutdown()
	}()

	logger.Infow("listening", "addr", cfg.ListenAddr, "metrics", cfg.MetricsAddr, "env", cfg.Env)
	if err := server.Listen(cfg.ListenAddr); err != nil {
		logger.Errorw("server stopped", "err", err)
	}
}
