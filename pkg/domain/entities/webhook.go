package entities

import (
	"time"

	"github.com/google/uuid"
)

// WebhookDelivery is an immutable audit record of one inbound webhook
// payload. Listings are ordered by ReceivedAt descending.
type WebhookDelivery struct {
	ID            uuid.UUID      `json:"id"`
	ProjectID     uuid.UUID      `json:"project_id"`
	Provider      string         `json:"provider"`
	Event         string         `json:"event"`
	Branch        string         `json:"branch"`
	Status        DeliveryStatus `json:"status"`
	Reason        string         `json:"reason,omitempty"`
	PayloadDigest string         `json:"payload_digest"`
	ReceivedAt    time.Time      `json:"received_at"`
}
