package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkravchuk/courseshop/config"
	"github.com/vkravchuk/courseshop/internal/drive"
	"github.com/vkravchuk/courseshop/internal/email"
	"github.com/vkravchuk/courseshop/internal/googleid"
	"github.com/vkravchuk/courseshop/internal/health"
	"github.com/vkravchuk/courseshop/internal/infrastructure/postgres"
	ctxlog "github.com/vkravchuk/courseshop/internal/log"
	"github.com/vkravchuk/courseshop/internal/maintenance"
	"github.com/vkravchuk/courseshop/internal/metrics"
	"github.com/vkravchuk/courseshop/internal/payment"
	httptransport "github.com/vkravchuk/courseshop/internal/transport/http"
	"github.com/vkravchuk/courseshop/internal/transport/http/handler"
	"github.com/vkravchuk/courseshop/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	courseRepo := postgres.NewCourseRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	googleVerifier, err := googleid.NewVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		stop()
		log.Fatalf("google verifier: %v", err)
	}

	sharer, err := newSharer(ctx, cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("drive: %v", err)
	}

	jwtKey := []byte(cfg.JWTSecret)

	authUsecase := usecase.NewAuthUsecase(userRepo, googleVerifier, jwtKey, cfg.JWTTTL)
	resetUsecase := usecase.NewResetUsecase(userRepo, sender, cfg.ResetCodeTTL, cfg.ResetCodeLength, jwtKey, cfg.JWTTTL)
	courseUsecase := usecase.NewCourseUsecase(courseRepo)
	paymentUsecase := usecase.NewPaymentUsecase(
		courseRepo, invoiceRepo,
		payment.NewMonoClient(cfg.MonoToken, cfg.MonoBaseURL),
		sharer,
		usecase.PaymentConfig{
			RedirectURL: cfg.MonoRedirectURL,
			WebhookURL:  cfg.MonoWebhookURL,
			Validity:    cfg.InvoiceValidity,
		},
		logger,
	)

	authHandler := handler.NewAuthHandler(authUsecase, resetUsecase, logger)
	courseHandler := handler.NewCourseHandler(courseUsecase, logger)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, logger)
	userHandler := handler.NewUserHandler(userRepo, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweeper, err := maintenance.NewSweeper(userRepo, paymentUsecase, cfg.SweepCron, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sweeper.Start(ctx)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(ctx, logger, httptransport.RouterConfig{
			JWTKey:             jwtKey,
			AllowedOrigins:     cfg.AllowedOrigins,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
			RateLimitBurst:     cfg.RateLimitBurst,
			MaxBodyBytes:       cfg.MaxBodyBytes,
		}, authHandler, courseHandler, paymentHandler, userHandler, userRepo),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

// newSharer returns a no-op logging sharer when no Drive credentials are
// configured (local dev), a real client otherwise.
func newSharer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (drive.Sharer, error) {
	if cfg.DriveCredentials == "" {
		return &logSharer{logger: logger}, nil
	}
	return drive.NewClient(ctx, []byte(cfg.DriveCredentials))
}

type logSharer struct {
	logger *slog.Logger
}

func (s *logSharer) GrantRead(_ context.Context, fileID, email string) (string, error) {
	s.logger.Info("drive grant (local dev)", "file_id", fileID, "email", email)
	return "local-grant", nil
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
