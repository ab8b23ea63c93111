package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gym-membership-platform/internal/config"
	"gym-membership-platform/internal/infra/api"
	"gym-membership-platform/internal/infra/assets"
	pg "gym-membership-platform/internal/infra/db/postgres"
	"gym-membership-platform/internal/infra/logging"
	"gym-membership-platform/internal/infra/metrics"
	"gym-membership-platform/internal/infra/notify"
	pay "gym-membership-platform/internal/infra/payment"
	red "gym-membership-platform/internal/infra/redis"
	"gym-membership-platform/internal/infra/sched"
	"gym-membership-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	memberRepo := pg.NewMemberRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	planRepo := pg.NewPostgresPlanRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	dayPassRepo := pg.NewDayPassRepo(pool)
	counterRepo := pg.NewCounterRepo(pool)
	txm := pg.NewTxManager(pool)

	// ---- Adapters ----
	gateway := pay.NewRazorpayGateway(
		cfg.Payment.Razorpay.KeyID,
		cfg.Payment.Razorpay.KeySecret,
		cfg.Payment.Razorpay.WebhookSecret,
	)
	assetStore := assets.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	notifier := notify.NewEmailNotifier(cfg.SMTP, logger)

	// ---- Use cases ----
	serials := usecase.NewSerialAllocator(counterRepo)
	orderUC := usecase.NewOrderUseCase(planRepo, paymentRepo, profileRepo, dayPassRepo, serials, gateway, txm, logger)
	activationUC := usecase.NewActivationUseCase(paymentRepo, profileRepo, planRepo, txm, logger)
	confirmUC := usecase.NewConfirmUseCase(paymentRepo, profileRepo, planRepo, gateway, activationUC, notifier, logger)
	profileUC := usecase.NewProfileUseCase(profileRepo, paymentRepo, memberRepo, assetStore, serials, logger)
	deletionUC := usecase.NewDeletionUseCase(profileRepo, paymentRepo, dayPassRepo, memberRepo, assetStore, notifier, txm, logger)
	dayPassUC := usecase.NewDayPassUseCase(dayPassRepo, logger)
	notifUC := usecase.NewNotificationUseCase(profileRepo, notifier, logger)

	// ---- Metrics ----
	metrics.MustRegister()
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	adminSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminMux}
	go func() {
		logger.Info().Str("addr", adminSrv.Addr).Msg("admin listener up")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- API server ----
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, !cfg.Runtime.Dev, "", cfg.Auth.TokenTTL)
	otpStore := red.NewOTPStore(redisClient, cfg.Auth.JWTSecret, 5*time.Minute)
	srv := api.NewServer(orderUC, confirmUC, profileUC, deletionUC, dayPassUC, planRepo, memberRepo, auth, otpStore, notifier, rateLimiter, logger)

	r := chi.NewRouter()
	srv.Register(r)
	handler := api.Chain(r,
		api.TraceID(logger),
		api.RequestLog(logger),
		api.Recover(logger),
		api.Timeout(cfg.Server.WriteTimeout),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Workers ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, notifUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	reminder := sched.NewReminderWorker(cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderDays, notifUC, logger)
	go func() { _ = reminder.Run(ctx) }()

	reconciler := sched.NewPaymentReconciler(confirmUC, paymentRepo, cfg.Scheduler.ReconcileInterval, cfg.Scheduler.ReconcileOlderThan, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
}
