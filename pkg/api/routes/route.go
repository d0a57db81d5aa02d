package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/deploydeck/deploydeck-backend/pkg/api/handlers"
	"github.com/deploydeck/deploydeck-backend/pkg/api/servers"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/repositories"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"
	"github.com/deploydeck/deploydeck-backend/pkg/progress"
	"github.com/deploydeck/deploydeck-backend/pkg/services"
	"github.com/deploydeck/deploydeck-backend/pkg/settings"
	"github.com/deploydeck/deploydeck-backend/pkg/taskmanager"

	swaggerFiles "github.com/swaggo/files"
)

func SetupRoutes(server *servers.Server) {
	apiV1 := server.Router.Group("/api/v1")
	setupV1Routes(apiV1, server)

	server.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func setupV1Routes(router *gin.RouterGroup, server *servers.Server) {
	projectRepo := repositories.NewProjectRepository(server.PostgresDB)
	deploymentRepo := repositories.NewDeploymentRepository(server.PostgresDB)
	channelRepo := repositories.NewChannelRepository(server.PostgresDB)
	deliveryRepo := repositories.NewDeliveryRepository(server.PostgresDB)

	store := newProgressStore(server.Redis)
	tracker := progress.NewTracker(store, entities.TaskKindDeployment)

	httpClient := &http.Client{Timeout: services.DefaultChannelTimeout}
	senderFor := func(channel *entities.NotificationChannel) (notify.Sender, error) {
		return notify.ForChannel(channel, httpClient, server.SMTP)
	}
	notificationService := services.NewNotificationService(channelRepo, senderFor, services.DefaultChannelTimeout)

	taskManager := taskmanager.NewTaskManager(4, 64)
	deploymentService := services.NewDeploymentService(
		projectRepo,
		deploymentRepo,
		store,
		taskManager,
		server.Executor,
		notificationService,
	)

	webhookService := services.NewWebhookService(projectRepo, deliveryRepo, deploymentService, server.BaseURL)

	settingsCache := settings.NewCache(server.Redis, time.Hour)
	cacheService := services.NewCacheService(
		services.NewCacheLayer("settings", settingsCache.Invalidate),
		redisPatternLayer(server.Redis, "progress", "deployment_*", "installation_*"),
		redisPatternLayer(server.Redis, "sessions", "sessions:*"),
		redisPatternLayer(server.Redis, "application", "app:*"),
	)

	// Health routes
	setupHealthRoutes(router.Group("/health"))

	// Deployment routes
	setupDeploymentRoutes(router, deploymentService, tracker)

	// Notification channel routes
	setupChannelRoutes(router.Group("/channels"), notificationService, channelRepo)

	// Webhook routes
	setupWebhookRoutes(router, webhookService, projectRepo)

	// System routes
	setupSystemRoutes(router.Group("/system"), cacheService)
}

func setupHealthRoutes(router *gin.RouterGroup) {
	handler := handlers.NewHealthHandler()
	router.GET("", handler.GetHealth)
}

func setupDeploymentRoutes(router *gin.RouterGroup, deploymentService *services.DeploymentService, tracker *progress.Tracker) {
	handler := handlers.NewDeploymentHandler(deploymentService)
	router.POST("/deployments/deploy-all", handler.DeployAll)
	router.POST("/projects/:id/deploy", handler.Deploy)
	router.GET("/projects/:id/deployments", handler.GetDeployments)

	progressHandler := handlers.NewProgressHandler(tracker)
	router.GET("/projects/:id/progress", progressHandler.GetProgress)
	router.GET("/projects/:id/progress/logs", progressHandler.GetLogs)
	router.DELETE("/projects/:id/progress", progressHandler.Clear)
}

func setupChannelRoutes(router *gin.RouterGroup, notificationService *services.NotificationService, channelRepo services.ChannelRepository) {
	handler := handlers.NewChannelHandler(notificationService, channelRepo)
	router.GET("", handler.GetChannels)
	router.POST("", handler.CreateChannel)
	router.PUT("/:id", handler.UpdateChannel)
	router.DELETE("/:id", handler.DeleteChannel)
	router.POST("/:id/test", handler.TestChannel)
	router.POST("/:id/toggle", handler.ToggleChannel)
}

func setupWebhookRoutes(router *gin.RouterGroup, webhookService *services.WebhookService, projectRepo services.ProjectRepository) {
	handler := handlers.NewWebhookHandler(webhookService, projectRepo)
	router.POST("/projects/:id/webhook/toggle", handler.ToggleWebhook)
	router.POST("/projects/:id/webhook/regenerate", handler.RegenerateSecret)
	router.GET("/projects/:id/deliveries", handler.GetDeliveries)
	router.POST("/webhooks/:provider/:secret", handler.Receive)
}

func setupSystemRoutes(router *gin.RouterGroup, cacheService *services.CacheService) {
	handler := handlers.NewCacheHandler(cacheService)
	router.POST("/caches/clear", handler.ClearAll)
}

// newProgressStore picks the Redis-backed store when a client is configured
// and falls back to the in-process store otherwise.
func newProgressStore(client *redis.Client) progress.Store {
	if client == nil {
		return progress.NewMemoryStore(progress.DefaultTTL)
	}
	return progress.NewRedisStore(client, progress.DefaultTTL)
}

// redisPatternLayer clears every Redis key matching the given patterns. With
// no Redis client the layer is a no-op, since nothing is cached there.
func redisPatternLayer(client *redis.Client, name string, patterns ...string) services.CacheLayer {
	return services.NewCacheLayer(name, func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		for _, pattern := range patterns {
			iter := client.Scan(ctx, 0, pattern, 0).Iterator()
			var keys []string
			for iter.Next(ctx) {
				keys = append(keys, iter.Val())
			}
			if err := iter.Err(); err != nil {
				return err
			}
			if len(keys) == 0 {
				continue
			}
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		return nil
	})
}
