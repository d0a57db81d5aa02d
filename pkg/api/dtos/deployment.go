package dtos

import (
	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type DeployRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

type DeliveryResponse struct {
	ID         uuid.UUID `json:"id"`
	Provider   string    `json:"provider"`
	Event      string    `json:"event"`
	Branch     string    `json:"branch"`
	Status     string    `json:"status"`
	Color      string    `json:"color"`
	Reason     string    `json:"reason,omitempty"`
	ReceivedAt string    `json:"receivedAt"`
}

func ToDeliveryResponse(delivery *entities.WebhookDelivery) DeliveryResponse {
	return DeliveryResponse{
		ID:         delivery.ID,
		Provider:   delivery.Provider,
		Event:      delivery.Event,
		Branch:     delivery.Branch,
		Status:     string(delivery.Status),
		Color:      delivery.Status.Color(),
		Reason:     delivery.Reason,
		ReceivedAt: delivery.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
