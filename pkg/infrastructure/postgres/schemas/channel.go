package schemas

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type NotificationChannel struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	Name       string               `gorm:"not null;column:name"`
	Type       entities.ChannelType `gorm:"not null;column:type"`
	Enabled    bool                 `gorm:"column:enabled;default:true"`
	Events     datatypes.JSON       `gorm:"type:jsonb;not null;column:events"`
	WebhookURL string               `gorm:"column:webhook_url"`
	Email      string               `gorm:"column:email"`
	ProjectID  *uuid.UUID           `gorm:"column:project_id"`
	CreatedAt  time.Time            `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt  time.Time            `gorm:"autoUpdateTime;column:updated_at"`
	DeletedAt  gorm.DeletedAt       `gorm:"index;column:deleted_at"`
}

func (NotificationChannel) TableName() string {
	return "notification_channels"
}
