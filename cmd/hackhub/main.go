package main

import (
	"log"
	"os"

	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/handlers"
	"github.com/hackhub-dev/hackhub/internal/router"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")

	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	if err := db.ConnectRedis(redisAddr, os.Getenv("REDIS_PASSWORD")); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	sessions := auth.NewRedisSessionStore(db.RDB)

	handlers.Init(sessions)

	r := router.NewRouter(sessions)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
