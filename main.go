package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ecocycle/backend/config"
	"github.com/ecocycle/backend/controllers"
	"github.com/ecocycle/backend/database"
	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/kafka"
	"github.com/ecocycle/backend/logger"
	"github.com/ecocycle/backend/models"
	aws_pkg "github.com/ecocycle/backend/pkg/aws"
	"github.com/ecocycle/backend/repository"
	"github.com/ecocycle/backend/routes"
	"github.com/ecocycle/backend/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	// Catalog (read-only)
	mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("mongo connection failed", zap.Error(err))
	}
	defer database.CloseMongo(mongoDB)
	catalog := repository.NewMongoCatalog(mongoDB)

	// Cart store
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	// Order ledger
	db, err := database.ConnectPostgres(cfg, log, &models.Order{}, &models.OrderItem{})
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	orderRepo := repository.NewGormOrderRepository(db)

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	producer := kafka.NewProducer(brokers, cfg.OrderEventsTopic)
	defer producer.Close()

	// SNS is optional; order notifications are best-effort.
	var snsClient aws_pkg.SNSPublisher
	if cfg.SNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			log.Warn("AWS config unavailable, SNS notifications disabled", zap.Error(err))
		} else {
			snsClient = aws_pkg.NewSNSClient(awsCfg)
		}
	}

	cartService := services.NewCartService(cartRepo, catalog, log)
	orderService := services.NewOrderService(orderRepo, cartRepo, catalog, producer, snsClient, cfg.SNSTopicARN, log)

	// Fulfillment events drive order status transitions.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := services.NewFulfillmentConsumer(brokers, cfg.FulfillmentTopic, cfg.ConsumerGroup, orderService, log)
	go consumer.Start(consumerCtx)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(), apperrors.ErrorMiddleware())

	routes.Register(
		router,
		controllers.NewProductController(catalog, log),
		controllers.NewCartController(cartService, log),
		controllers.NewOrderController(orderService, log),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("storefront backend running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down gracefully")
	stopConsumer()
	_ = consumer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", zap.Error(err))
	}
	log.Info("server shutdown complete")
}
