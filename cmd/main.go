package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Olatundeawo/ordora/internal/api"
	"github.com/Olatundeawo/ordora/internal/config"
	"github.com/Olatundeawo/ordora/internal/consumer"
	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/gateway"
	"github.com/Olatundeawo/ordora/internal/repository"
	"github.com/Olatundeawo/ordora/internal/service"
	"github.com/Olatundeawo/ordora/migrations"
)

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := connectDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic)

	userRepo := repository.NewUserRepository(db)
	goodsRepo := repository.NewGoodsRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecret)

	userService := service.NewUserService(userRepo, rdb, cfg.JWTSecret)
	goodsService := service.NewGoodsService(goodsRepo, rdb)
	orderService := service.NewOrderService(orderRepo, kafkaWriter)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, userRepo, gw, kafkaWriter, cfg.RedirectURL, cfg.Currency)

	userHandler := api.NewUserHandler(userService)
	goodsHandler := api.NewGoodsHandler(goodsService)
	orderHandler := api.NewOrderHandler(orderService)
	paymentHandler := api.NewPaymentHandler(paymentService, cfg.WebhookSecret, cfg.Debug)

	// Cache-refresh consumer for order events
	reader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, "ordora-goods-cache")
	go consumer.NewConsumer(goodsService, reader).Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.Request().RemoteAddr, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)
	e.POST("/token/refresh", userHandler.Refresh)
	e.GET("/goods", goodsHandler.List)
	e.POST("/payments/webhook", paymentHandler.Webhook)
	e.GET("/payments/callback", paymentHandler.Callback)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "ordora",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Authenticated routes
	auth := e.Group("", api.JWTMiddleware(cfg.JWTSecret))
	auth.GET("/users/:id", userHandler.GetUserByID)
	auth.GET("/goods/me", goodsHandler.Mine, api.RequireRole(entity.RoleProducer))
	auth.GET("/goods/:id", goodsHandler.Get)
	auth.POST("/goods", goodsHandler.Create, api.RequireRole(entity.RoleProducer))
	auth.PUT("/goods/:id", goodsHandler.Update, api.RequireRole(entity.RoleProducer))
	auth.DELETE("/goods/:id", goodsHandler.Delete, api.RequireRole(entity.RoleProducer))

	auth.POST("/orders", orderHandler.Create, api.RequireRole(entity.RoleCustomer))
	auth.GET("/orders/customer", orderHandler.CustomerOrders, api.RequireRole(entity.RoleCustomer))
	auth.GET("/orders/producer", orderHandler.ProducerOrders, api.RequireRole(entity.RoleProducer))
	auth.GET("/orders/:id", orderHandler.Get)

	auth.POST("/payments/qr/:order_id", paymentHandler.Initiate, api.RequireRole(entity.RoleCustomer))
	auth.GET("/payments/status/:reference", paymentHandler.Status)
	auth.GET("/payments/order/:order_id", paymentHandler.ByOrder)
	auth.GET("/payments/me", paymentHandler.Mine, api.RequireRole(entity.RoleCustomer))

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
