package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"vidmatch/backend/internal/api/handler"
	"vidmatch/backend/internal/config"
	"vidmatch/backend/internal/models"
	"vidmatch/backend/internal/moderation"
	"vidmatch/backend/internal/storage"
	"vidmatch/backend/internal/videohub"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting VidMatch Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	// 1. Dependencies
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Hub, matcher state and moderation
	match := videohub.NewMatchService()
	hub := videohub.NewHub(match, s)
	hub.SetModeration(moderation.NewService(s))

	// 3. Background goroutines
	go hub.Run()
	hub.StartStatsPublisher(30 * time.Second)

	// 4. Gin routing
	r := gin.Default()
	h := handler.NewHandler(hub, s, cfg.JWTSecret)

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/complete-profile", h.AuthRequired(), h.CompleteProfile)
	r.GET("/api/stats", h.GetStats)
	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
