package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"party-hub/internal/auth"
	"party-hub/internal/config"
	"party-hub/internal/db"
	"party-hub/internal/game"
	"party-hub/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("AUTH_SECRET is not set")
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.ConfigurePool(conn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeSeconds, cfg.DBConnMaxIdleTimeSeconds); err != nil {
		log.Fatalf("database pool configuration failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	authService := auth.NewService(cfg.AuthSecret, time.Duration(cfg.AuthTokenTTLMinutes)*time.Minute)
	engine := game.New(game.NewDBStore(conn), cfg.BadgeUpcomingWindow)

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg, authService, engine)
	log.Printf("party-hub server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
