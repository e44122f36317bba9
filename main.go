package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/checkout-service/config"
	"github.com/yashrajoria/checkout-service/controllers"
	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/logger"
	"github.com/yashrajoria/checkout-service/middleware"
	aws_pkg "github.com/yashrajoria/checkout-service/pkg/aws"
	"github.com/yashrajoria/checkout-service/processors"
	"github.com/yashrajoria/checkout-service/repository"
	"github.com/yashrajoria/checkout-service/routes"
	"github.com/yashrajoria/checkout-service/services"
)

const (
	serviceName    = "checkout-service"
	limiterIdleTTL = 5 * time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to load config:", err)
	}

	// --- AWS setup (optional for local runs) ---
	awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background())

	var cwWriter io.Writer
	if cfg.CloudWatchEnabled && awsErr == nil {
		w, err := aws_pkg.NewCloudWatchLogsWriter(context.Background(), awsCfg, cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			log.Println("[CheckoutService] CloudWatch logs disabled:", err)
		} else {
			cwWriter = w
		}
	}

	zapLogger, err := logger.New(cfg.Env, cwWriter)
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	var snsClient aws_pkg.SNSPublisher
	var metricsClient *aws_pkg.MetricsClient
	if awsErr != nil {
		zapLogger.Warn("AWS config unavailable, events and metrics disabled", zap.Error(awsErr))
	} else {
		if err := cfg.ApplySecrets(context.Background(), aws_pkg.NewSecretsClient(awsCfg)); err != nil {
			zapLogger.Warn("Secrets Manager override failed (non-fatal)", zap.Error(err))
		}
		snsClient = aws_pkg.NewSNSClient(awsCfg)
		metricsClient = aws_pkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
	}

	// --- Dependency injection ---
	ids, err := processors.NewIDGenerator(cfg.TxIDStrategy)
	if err != nil {
		zapLogger.Fatal("Invalid transaction id strategy", zap.Error(err))
	}
	checkoutService := newCheckoutService(cfg, ids, snsClient, metricsClient, zapLogger)
	legacy := services.NewLegacyCheckout(checkoutService, os.Stdout, zapLogger)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	limiter.StartSweeper(sweepCtx, limiterIdleTTL)

	r := newRouter(cfg, checkoutService, legacy, limiter, metricsClient, zapLogger)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zapLogger.Info("Checkout Service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Initiating graceful shutdown...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}
	zapLogger.Info("Checkout Service stopped gracefully")
}

func newCheckoutService(cfg *config.Config, ids processors.TransactionIDGenerator, sns aws_pkg.SNSPublisher, metricsClient *aws_pkg.MetricsClient, zapLogger *zap.Logger) services.CheckoutService {
	deps := services.Dependencies{
		History:     repository.NewMemoryTransactionRepo(cfg.HistoryLimit),
		SNSClient:   sns,
		SNSTopicArn: cfg.PaymentSNSTopicARN,
	}
	if metricsClient.IsEnabled() {
		deps.Metrics = metricsClient
	}
	procs := processors.DefaultProcessors(ids, cfg.ProcessorTimeouts, zapLogger)
	return services.NewCheckoutService(procs, deps, zapLogger)
}

func newRouter(cfg *config.Config, checkoutService services.CheckoutService, legacy *services.LegacyCheckout, limiter *middleware.RateLimiter, metricsClient *aws_pkg.MetricsClient, zapLogger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(apperrors.ErrorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})

	api := r.Group("")
	api.Use(middleware.RateLimit(limiter))
	routes.RegisterCheckoutRoutes(api, controllers.NewCheckoutController(checkoutService, legacy))

	r.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c.Writer, apperrors.New("NOT_FOUND", http.StatusNotFound, "Not found", nil))
	})
	return r
}
