package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/nileshk/digital-whiteboard/internal/config"
	"github.com/nileshk/digital-whiteboard/internal/db"
	"github.com/nileshk/digital-whiteboard/internal/middleware"
	"github.com/nileshk/digital-whiteboard/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	pool, err := db.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Invalid database configuration:", err)
	}
	defer pool.Close()

	database, err := pool.Connect(context.Background())
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth(cfg)

	tokens := session.NewManager(cfg.SessionSecret, cfg.SessionLifetime)

	router := newRouter(pool, tokens)

	log.Println("Server starting on http://localhost:" + cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
