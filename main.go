package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"nontonin-api/config"
	"nontonin-api/database"
	routes "nontonin-api/internal/app/http"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/media"
	"nontonin-api/internal/domain/payments"
	"nontonin-api/internal/infra/cache"
	"nontonin-api/internal/infra/logging"
	"nontonin-api/internal/infra/queue"
	"nontonin-api/internal/infra/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	database.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.NewClient(ctx)
	if err != nil {
		logging.LogError(err, "redis unavailable, rate limiting and idempotency locks disabled")
	}

	var store media.Uploader
	s3, err := storage.NewClient()
	if err != nil {
		logging.LogError(err, "object storage unavailable, uploads disabled")
	} else if s3 != nil {
		store = s3
	}

	// Activity goes through RabbitMQ when configured; the consumer below
	// writes it to activity_logs. Without a broker it is written directly.
	var sink activity.Sink = activity.DBSink{DB: database.DB}
	if config.RABBITMQ_URL != "" {
		mq, err := queue.NewRabbitMQClient(config.RABBITMQ_URL)
		if err != nil {
			logging.LogError(err, "rabbitmq unavailable, writing activity directly")
		} else {
			defer mq.Close()
			sink = mq
			err := mq.Consume(ctx, func(ctx context.Context, e activity.Event) error {
				return activity.Save(ctx, database.DB, e)
			})
			if err != nil {
				logging.LogError(err, "activity consumer not started")
			}
		}
	}
	activity.Use(sink)

	var locker payments.Locker
	if rdb != nil {
		locker = cache.NewIdempotencyLock(rdb)
	}
	fulfiller := payments.NewFulfiller(payments.GormStore{DB: database.DB}, locker, sink)
	registry := payments.NewRegistry(fulfiller.Fulfill, config.QRIS_COUNTDOWN_SECONDS, config.QRIS_TICK)

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Redis:    rdb,
		Storage:  store,
		Registry: registry,
		Fulfill:  fulfiller.Fulfill,
	})

	srv := &http.Server{Addr: ":" + config.PORT, Handler: r}
	go func() {
		logging.LogInfo("listening on :" + config.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(err, "server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(err, "graceful shutdown failed")
	}
}
