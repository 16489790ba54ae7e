package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beratbaran/flyticket/config"
	"github.com/beratbaran/flyticket/internal/bootstrap"
	"github.com/beratbaran/flyticket/internal/cache"
	"github.com/beratbaran/flyticket/internal/kafka"
	"github.com/beratbaran/flyticket/internal/repository"
	"github.com/beratbaran/flyticket/internal/service/auth"
	"github.com/beratbaran/flyticket/internal/service/cities"
	"github.com/beratbaran/flyticket/internal/service/flights"
	"github.com/beratbaran/flyticket/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.FlightsTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	cityRepo := repository.NewCityRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	flightService := flights.NewFlightService(flightRepo, cityRepo, redisCache)
	ticketService := tickets.NewTicketService(
		ticketRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.TicketEventsTopic,
		tickets.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	cityService := cities.NewCityService(cityRepo)
	authService := auth.NewAuthService(adminRepo, cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	router := bootstrap.NewRouter(flightService, ticketService, cityService, authService)
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
