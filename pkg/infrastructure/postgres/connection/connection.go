package connection

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/schemas"
)

func Init(
	postgresUser string,
	postgresHost string,
	postgresPassword string,
	postgresDatabase string,
	postgresPort string,
) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s TimeZone=UTC",
		postgresHost,
		postgresUser,
		postgresPassword,
		postgresDatabase,
		postgresPort)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		logger.Errorf("Failed to connect to postgres database", "err", err)
		return nil, err
	}

	err = db.AutoMigrate(
		&schemas.Project{},
		&schemas.Deployment{},
		&schemas.NotificationChannel{},
		&schemas.WebhookDelivery{},
	)
	if err != nil {
		logger.Errorf("Failed to auto migrate DB schemas", "err", err.Error())
		return nil, err
	}

	return db, nil
}
