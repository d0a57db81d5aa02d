package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/deploydeck/deploydeck-backend/docs"
	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/api/routes"
	"github.com/deploydeck/deploydeck-backend/pkg/api/servers"
	"github.com/deploydeck/deploydeck-backend/pkg/executor"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/connection"
	redisconn "github.com/deploydeck/deploydeck-backend/pkg/infrastructure/redis"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"

	"github.com/gin-contrib/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           DeployDeck Backend
// @version         1.0
// @description     DeployDeck Backend API

// @host      localhost:${PORT}
// @BasePath  /api/v1

// @securityDefinitions.basic  NoAuth
func main() {

	logger.Init()

	// Load .env file if it exists (optional for Docker runtime)
	if err := godotenv.Load(".env"); err != nil {
		logger.Infof("No .env file found, using environment variables: %s", err)
	}

	port := os.Getenv("PORT")

	if port == "" {
		port = "8000"
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	postgresHost := os.Getenv("POSTGRES_HOST")
	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	postgresDatabase := os.Getenv("POSTGRES_DB")
	postgresPort := os.Getenv("POSTGRES_PORT")

	postgresDB, err := connection.Init(
		postgresUser,
		postgresHost,
		postgresPassword,
		postgresDatabase,
		postgresPort,
	)
	if err != nil {
		logger.Fatal("Failed to connect to postgres", zap.Error(err))
	}

	// Redis is optional: without it, progress falls back to the in-process
	// store and the Redis-backed cache layers become no-ops.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		redisClient, err = redisconn.Init(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			logger.Error("Failed to connect to redis, using in-process progress store", zap.Error(err))
			redisClient = nil
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}

	smtp := notify.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}

	// programmatically set swagger info
	docs.SwaggerInfo.Title = "DeployDeck Backend"
	docs.SwaggerInfo.Description = "DeployDeck Backend API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http"}
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", port)
	docs.SwaggerInfo.BasePath = "/api/v1"

	server := servers.NewServer(postgresDB, redisClient, executor.DefaultSimulator(), smtp, baseURL)
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"*"}

	server.Use(cors.New(config))

	routes.SetupRoutes(server)

	err = server.Start(port)
	if err != nil {
		logger.Error("Failed to start server", zap.Error(err))
		log.Fatal(err)
	}
}
