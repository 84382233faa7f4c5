package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"order-care-service/controllers"
	"order-care-service/database"
	"order-care-service/kafka"
	"order-care-service/models"
	awspkg "order-care-service/pkg/aws"
	"order-care-service/repository"
	"order-care-service/routes"
	"order-care-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Claims store (Postgres) ---
	db, err := database.ConnectPostgres(cfg.Postgres, logger,
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusEvent{},
		&models.ReturnRequest{},
		&models.RefundRequest{},
	)
	if err != nil {
		logger.Fatal("Postgres connection failed", zap.Error(err))
	}

	// --- Catalog (Mongo + optional Redis cache) ---
	if err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDBName, logger); err != nil {
		logger.Fatal("Mongo connection failed", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		rc, err := database.NewRedisClient(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			redisClient = rc
		}
	}

	catalog := services.NewMongoCatalog(database.CatalogDB, redisClient, logger)

	// --- Event sinks (Kafka + best-effort SNS) ---
	var producer kafka.ProducerAPI
	if cfg.KafkaBrokers != "" {
		producer = kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, logger)
	}

	var snsClient awspkg.SNSPublisher
	if cfg.SNSTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Warn("AWS config load failed, SNS mirror disabled", zap.Error(err))
		} else {
			snsClient = awspkg.NewSNSClient(awsCfg)
		}
	}

	events := services.NewEventPublisher(producer, cfg.KafkaTopic, snsClient, cfg.SNSTopicARN, logger)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// CloudWatch HTTP metrics middleware (no-op unless enabled)
	metricsClient, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}
	r.Use(func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		go func(path, method string, status int, dur time.Duration) {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": "order-care-service", "Method": method, "Path": path}
			_ = metricsClient.RecordCount(mctx, awspkg.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(mctx, awspkg.MetricHTTPLatency, dur, dims)
			if status >= 400 {
				_ = metricsClient.RecordCount(mctx, awspkg.MetricHTTPErrors, dims)
			}
		}(c.Request.URL.Path, c.Request.Method, c.Writer.Status(), time.Since(start))
	})

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	orderRepo := repository.NewGormOrderRepository(db)
	returnRepo := repository.NewGormReturnRepository(db)
	refundRepo := repository.NewGormRefundRepository(db)

	orderService := services.NewOrderService(orderRepo, refundRepo, catalog, events, metricsClient, logger)
	returnService := services.NewReturnService(returnRepo, orderRepo, events, metricsClient, logger)
	refundService := services.NewRefundService(refundRepo, orderRepo, events, metricsClient, logger)

	orderController := controllers.NewOrderController(orderService)
	returnController := controllers.NewReturnController(returnService)
	refundController := controllers.NewRefundController(refundService)

	routes.RegisterRoutes(r, orderController, returnController, refundController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "order-care-service"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Order Care Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Error("Postgres close error", zap.Error(err))
	}
	if err := database.CloseMongo(); err != nil {
		logger.Error("Mongo close error", zap.Error(err))
	}

	logger.Info("Order Care Service stopped gracefully")
}
