package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verident/internal/audit"
	"verident/internal/face"
	"verident/internal/ocr/tesseract"
	"verident/internal/platform/config"
	"verident/internal/platform/database"
	"verident/internal/platform/httpserver"
	"verident/internal/platform/logger"
	"verident/internal/platform/metrics"
	"verident/internal/platform/redis"
	"verident/internal/ratelimit"
	httptransport "verident/internal/transport/http"
	"verident/internal/verification"
	"verident/internal/verification/handler"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		enrollmentStore face.Store
		recordStore     verification.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		enrollmentStore = face.NewPostgresStore(db)
		recordStore = verification.NewPostgresStore(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		enrollmentStore = face.NewInMemoryStore()
		recordStore = verification.NewInMemoryStore()
	}

	var sink audit.Sink = audit.NewLogSink(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka sink setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	publisher := audit.NewAsyncPublisher(256, log)
	auditWorker := audit.NewWorker(sink, publisher.Inbox(), log)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err.Error())
		}
	}()

	provider := face.NewHTTPProvider(cfg.FaceServiceURL, &http.Client{Timeout: cfg.BranchTimeout})
	engine := tesseract.New(cfg.OCRLanguages)

	matcher := face.NewMatcher(provider, enrollmentStore)
	enrollment := face.NewEnrollmentService(provider, enrollmentStore, publisher, m, log)
	verifier := verification.NewService(engine, matcher, recordStore, publisher, m, log, cfg.BranchTimeout)

	var limiter ratelimit.Allower
	if cfg.RateLimitPerMinute > 0 {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "error", err.Error())
			os.Exit(1)
		}
		if rdb == nil {
			log.Warn("rate limit configured without redis, limiter disabled")
		} else {
			defer rdb.Close()
			limiter = ratelimit.NewLimiter(rdb.Client, cfg.RateLimitPerMinute, time.Minute)
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Handler: handler.New(verifier, enrollment, log),
		Metrics: m,
		Limiter: limiter,
		Logger:  log,
	})
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting verident", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
