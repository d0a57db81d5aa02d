package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// ErrUnknownChannelType is returned when a channel record carries a type no
// transport is registered for.
var ErrUnknownChannelType = errors.New("unknown notification channel type")

// Event is the payload delivered to each channel recipient.
type Event struct {
	Name        string    `json:"event"`
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name,omitempty"`
	Status      string    `json:"status,omitempty"`
	Message     string    `json:"message,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Sender delivers one event to one recipient. Implementations are the
// per-type transports: slack and discord webhooks, email.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// SMTPConfig holds the outbound mail settings shared by all email channels.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// ForChannel builds the transport matching a channel's type tag. Each type
// maps to its own variant rather than one struct with optional fields.
func ForChannel(channel *entities.NotificationChannel, client *http.Client, smtp SMTPConfig) (Sender, error) {
	switch channel.Type {
	case entities.ChannelTypeSlack:
		if channel.WebhookURL == "" {
			return nil, fmt.Errorf("slack channel %s has no webhook url", channel.Name)
		}
		return &SlackSender{URL: channel.WebhookURL, Client: client}, nil
	case entities.ChannelTypeDiscord:
		if channel.WebhookURL == "" {
			return nil, fmt.Errorf("discord channel %s has no webhook url", channel.Name)
		}
		return &DiscordSender{URL: channel.WebhookURL, Client: client}, nil
	case entities.ChannelTypeEmail:
		if channel.Email == "" {
			return nil, fmt.Errorf("email channel %s has no address", channel.Name)
		}
		return &EmailSender{To: channel.Email, Config: smtp}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannelType, channel.Type)
	}
}
