package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/beratbaran/flyticket/config"
	"github.com/beratbaran/flyticket/internal/repository"
	"github.com/beratbaran/flyticket/internal/service/auth"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	authService := auth.NewAuthService(repository.NewAdminRepository(pool), cfg.Auth.Secret, 0)
	if err := authService.EnsureAdmin(ctx, *username, *password); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %q is ready", *username)
}
