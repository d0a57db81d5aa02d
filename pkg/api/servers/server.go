package servers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/executor"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"
)

type Server struct {
	Router     *gin.Engine
	PostgresDB *gorm.DB
	Redis      *redis.Client
	Executor   executor.Executor
	SMTP       notify.SMTPConfig
	BaseURL    string
}

func (s *Server) Start(port string) error {
	return s.Router.Run(":" + port)
}

func (s *Server) Use(middleware gin.HandlerFunc) {
	s.Router.Use(middleware)
}

func NewServer(db *gorm.DB, redisClient *redis.Client, exec executor.Executor, smtp notify.SMTPConfig, baseURL string) *Server {
	app := gin.Default()

	return &Server{
		Router:     app,
		PostgresDB: db,
		Redis:      redisClient,
		Executor:   exec,
		SMTP:       smtp,
		BaseURL:    baseURL,
	}
}
