package schemas

import (
	"time"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type Deployment struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	ProjectID   uuid.UUID              `gorm:"column:project_id;not null;references:ID"`
	Project     Project                `gorm:"foreignKey:ProjectID"`
	ServerID    *uuid.UUID             `gorm:"column:server_id"`
	UserID      uuid.UUID              `gorm:"column:user_id;not null"`
	Branch      string                 `gorm:"column:branch;not null"`
	CommitHash  string                 `gorm:"column:commit_hash;not null"`
	Status      entities.TaskStatus    `gorm:"column:status;not null"`
	TriggeredBy entities.TriggerSource `gorm:"column:triggered_by;not null"`
	CreatedAt   time.Time              `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime;column:updated_at"`
}

func (Deployment) TableName() string {
	return "deployments"
}
