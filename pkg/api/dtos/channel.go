package dtos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type ChannelRequest struct {
	Name       string     `json:"name"       binding:"required"`
	Type       string     `json:"type"       binding:"required" validate:"oneof=slack discord email"`
	Enabled    *bool      `json:"enabled"`
	Events     []string   `json:"events"     binding:"required"`
	WebhookURL string     `json:"webhookUrl"`
	Email      string     `json:"email"`
	ProjectID  *uuid.UUID `json:"projectId"`
}

// Validate enforces the per-type field contract: slack/discord need a
// webhook URL, email needs an address, and every channel needs at least one
// subscribed event. Violations surface per-field before anything persists.
func (request *ChannelRequest) Validate() error {
	channelType := entities.ChannelType(request.Type)
	if !channelType.IsValid() {
		return fmt.Errorf("unknown channel type %q", request.Type)
	}
	if len(request.Events) == 0 {
		return errors.New("events: at least one subscribed event is required")
	}
	switch channelType {
	case entities.ChannelTypeSlack, entities.ChannelTypeDiscord:
		if request.WebhookURL == "" {
			return errors.New("webhookUrl: required for slack and discord channels")
		}
		if request.Email != "" {
			return errors.New("email: must be empty for slack and discord channels")
		}
	case entities.ChannelTypeEmail:
		if request.Email == "" {
			return errors.New("email: required for email channels")
		}
		if request.WebhookURL != "" {
			return errors.New("webhookUrl: must be empty for email channels")
		}
	}
	return nil
}

// ToEntity builds the channel entity; new channels default to enabled.
func (request *ChannelRequest) ToEntity(id uuid.UUID) *entities.NotificationChannel {
	enabled := true
	if request.Enabled != nil {
		enabled = *request.Enabled
	}
	return &entities.NotificationChannel{
		ID:         id,
		Name:       request.Name,
		Type:       entities.ChannelType(request.Type),
		Enabled:    enabled,
		Events:     request.Events,
		WebhookURL: request.WebhookURL,
		Email:      request.Email,
		ProjectID:  request.ProjectID,
	}
}
