package schemas

import (
	"time"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type WebhookDelivery struct {
	ID            uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	ProjectID     uuid.UUID               `gorm:"column:project_id;not null;references:ID"`
	Project       Project                 `gorm:"foreignKey:ProjectID"`
	Provider      string                  `gorm:"column:provider;not null"`
	Event         string                  `gorm:"column:event"`
	Branch        string                  `gorm:"column:branch"`
	Status        entities.DeliveryStatus `gorm:"column:status;not null"`
	Reason        string                  `gorm:"column:reason"`
	PayloadDigest string                  `gorm:"column:payload_digest"`
	ReceivedAt    time.Time               `gorm:"autoCreateTime;column:received_at"`
}

func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
