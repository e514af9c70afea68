package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/libs/config"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/libs/grpcx"
	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/libs/kafkax"
	"github.com/md-rashed-zaman/palor/libs/metrics"
	otelx "github.com/md-rashed-zaman/palor/libs/otel"
	"github.com/md-rashed-zaman/palor/libs/runtime"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/accounts"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/analytics"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/appointments"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/catalog"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/handlers"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/reviews"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/storage"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/transactions"
	"github.com/md-rashed-zaman/palor/services/salon-service/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

func main() {
	// "salon-service healthcheck" probes a running instance over gRPC and is
	// meant for container health checks.
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck())
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := runtime.NewLogger(cfg.ServiceName)
	if err := run(cfg, logger); err != nil {
		logger.Error("salon service exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.ServiceName))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			return err
		}
	}

	loc := cfg.location()
	outboxRepo := outbox.NewRepository()
	serviceRepo := storage.NewServiceRepository(pool)
	userRepo := storage.NewUserRepository(pool)
	apptRepo := storage.NewAppointmentRepository(pool, outboxRepo)
	txnRepo := storage.NewTransactionRepository(pool, outboxRepo)
	reviewRepo := storage.NewReviewRepository(pool, outboxRepo)
	analyticsRepo := storage.NewAnalyticsRepository(pool, serviceRepo, txnRepo)

	issuer := auth.Issuer{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.TokenTTL}
	verifier := auth.Verifier{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	if cfg.JWKSURL != "" {
		verifier.JWKS = auth.NewJWKSClient(cfg.JWKSURL, 10*time.Minute)
	}

	accountSvc := accounts.NewService(userRepo, issuer, logger)
	if cfg.AdminEmail != "" {
		if err := accountSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}
	catalogSvc := catalog.NewService(serviceRepo, logger)
	apptSvc := appointments.NewService(apptRepo, serviceRepo, userRepo, logger, appointments.Options{Location: loc})
	txnSvc := transactions.NewService(txnRepo, logger, loc)
	reviewSvc := reviews.NewService(reviewRepo, logger)
	analyticsSvc := analytics.NewService(analyticsRepo, logger, analytics.Options{Location: loc})

	publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:     cfg.KafkaBrokers,
		TopicPrefix: cfg.KafkaTopicPrefix,
		PollEvery:   2 * time.Second,
		BatchSize:   50,
	})
	go publisher.Run(ctx)

	checks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if publisher.Enabled() {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Optional: true, Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
	}

	var limiter httpx.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		limiter = httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.ServiceName)
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Optional: true, Check: httpx.RedisReadyCheck(rdb)})
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", cfg.RedisAddr)
	} else {
		limiter = httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled (memory)", "per_minute", cfg.RateLimitPerMinute)
	}

	reg := metrics.New("palor")
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "palor",
		Name:      "outbox_pending_events",
		Help:      "Outbox events not yet published to Kafka.",
	}, func() float64 {
		qctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := outboxRepo.PendingCount(qctx, pool)
		if err != nil {
			return 0
		}
		return float64(n)
	}))

	logger.Info("readiness checks", "checks", runtime.CheckNames(checks))
	mux := runtime.NewBaseMuxWithReady(checks...)
	mux.Handle("GET /metrics", reg.Handler())
	handlers.Register(mux, handlers.Deps{
		Appointments: apptSvc,
		Transactions: txnSvc,
		Reviews:      reviewSvc,
		Catalog:      catalogSvc,
		Accounts:     accountSvc,
		Analytics:    analyticsSvc,
		Verifier:     verifier,
		Logger:       logger,
		Throttle:     httpx.WithRateLimit(limiter, "write", logger, cfg.RateLimitFailOpen),
	})

	httpHandler := httpx.Chain(mux,
		httpx.WithRecover(logger),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.DefaultCORSPolicy(cfg.CORSAllowedOrigins)),
		httpx.WithBodyLimit(cfg.MaxBodyBytes),
		httpx.WithTimeout(cfg.RequestTimeout),
		reg.Middleware(),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "salon")
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcSrv := grpcx.NewServer(grpc.ChainUnaryInterceptor(grpcx.UnaryServerLoggingInterceptor(logger)))
	grpcSrv.SetServing(true, cfg.ServiceName)
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
	if err != nil {
		return err
	}
	go grpcSrv.Serve(ctx, lis, logger)

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	grpcSrv.SetServing(false, cfg.ServiceName)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
	return nil
}

func healthcheck() int {
	addr := "127.0.0.1:" + config.String("GRPC_PORT", "9090")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := grpcx.CheckHealth(ctx, addr, config.String("SERVICE_NAME", "salon-service"), grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		slog.Error("healthcheck failed", "addr", addr, "err", err)
		return 1
	}
	return 0
}
