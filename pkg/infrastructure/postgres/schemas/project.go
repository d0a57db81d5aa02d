package schemas

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type Project struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	Name           string                 `gorm:"unique;not null;column:name"`
	Status         entities.ProjectStatus `gorm:"not null;column:status"`
	ServerID       *uuid.UUID             `gorm:"column:server_id"`
	Branch         string                 `gorm:"column:branch"`
	RepoURL        string                 `gorm:"column:repo_url"`
	WebhookEnabled bool                   `gorm:"column:webhook_enabled;default:false"`
	WebhookSecret  string                 `gorm:"column:webhook_secret"`
	CreatedAt      time.Time              `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt      time.Time              `gorm:"autoUpdateTime;column:updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index;column:deleted_at"`
}

func (Project) TableName() string {
	return "projects"
}
