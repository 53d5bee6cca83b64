package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blacktie-rides/limobooking/config"
	"github.com/blacktie-rides/limobooking/internal/bootstrap"
	"github.com/blacktie-rides/limobooking/internal/cache"
	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/blacktie-rides/limobooking/internal/kafka"
	"github.com/blacktie-rides/limobooking/internal/repository"
	"github.com/blacktie-rides/limobooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ListCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalog := domain.NewCatalog()
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		domain.NewValidator(catalog),
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, catalog, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
