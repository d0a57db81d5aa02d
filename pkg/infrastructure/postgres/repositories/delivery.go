package repositories

import (
	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/schemas"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) CreateDelivery(delivery *entities.WebhookDelivery) error {
	return r.db.Create(ToDeliverySchema(delivery)).Error
}

func (r *DeliveryRepository) GetDeliveriesByProjectID(projectID string) ([]*entities.WebhookDelivery, error) {
	var deliveries []schemas.WebhookDelivery
	if err := r.db.Where("project_id = ?", projectID).Order("received_at desc").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	deliveryEntities := make([]*entities.WebhookDelivery, len(deliveries))
	for i, delivery := range deliveries {
		deliveryEntities[i] = ToDeliveryEntity(&delivery)
	}
	return deliveryEntities, nil
}

func ToDeliverySchema(delivery *entities.WebhookDelivery) *schemas.WebhookDelivery {
	return &schemas.WebhookDelivery{
		ID:            delivery.ID,
		ProjectID:     delivery.ProjectID,
		Provider:      delivery.Provider,
		Event:         delivery.Event,
		Branch:        delivery.Branch,
		Status:        delivery.Status,
		Reason:        delivery.Reason,
		PayloadDigest: delivery.PayloadDigest,
	}
}

func ToDeliveryEntity(delivery *schemas.WebhookDelivery) *entities.WebhookDelivery {
	return &entities.WebhookDelivery{
		ID:            delivery.ID,
		ProjectID:     delivery.ProjectID,
		Provider:      delivery.Provider,
		Event:         delivery.Event,
		Branch:        delivery.Branch,
		Status:        delivery.Status,
		Reason:        delivery.Reason,
		PayloadDigest: delivery.PayloadDigest,
		ReceivedAt:    delivery.ReceivedAt,
	}
}
