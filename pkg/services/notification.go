package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"
)

// DefaultChannelTimeout bounds a single channel delivery so one slow
// endpoint cannot stall the whole fan-out.
const DefaultChannelTimeout = 5 * time.Second

type ChannelRepository interface {
	GetChannels() ([]*entities.NotificationChannel, error)
	GetChannelByID(id string) (*entities.NotificationChannel, error)
	CreateChannel(channel *entities.NotificationChannel) error
	UpdateChannel(channel *entities.NotificationChannel) error
	UpdateChannelEnabled(id string, enabled bool) error
	DeleteChannel(id string) error
}

// SenderFactory resolves the transport for a channel. Injected so tests can
// substitute fakes for the HTTP/SMTP transports.
type SenderFactory func(channel *entities.NotificationChannel) (notify.Sender, error)

// ChannelFailure records one channel's failed delivery inside an otherwise
// successful fan-out.
type ChannelFailure struct {
	ChannelID   uuid.UUID `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Error       string    `json:"error"`
}

// FanoutResult is the per-event aggregate: every candidate is attempted,
// partial failure never raises.
type FanoutResult struct {
	Attempted int              `json:"attempted"`
	Delivered int              `json:"delivered"`
	Failed    int              `json:"failed"`
	Failures  []ChannelFailure `json:"failures,omitempty"`
}

type NotificationService struct {
	channels  ChannelRepository
	senderFor SenderFactory
	timeout   time.Duration
}

func NewNotificationService(channels ChannelRepository, senderFor SenderFactory, timeout time.Duration) *NotificationService {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &NotificationService{
		channels:  channels,
		senderFor: senderFor,
		timeout:   timeout,
	}
}

// Notify resolves the channels subscribed to the event (enabled, matching
// event name, global or scoped to the event's project) and dispatches to
// each independently. A channel failure is recorded and the loop continues;
// an empty candidate set is a no-op result, not an error.
func (s *NotificationService) Notify(ctx context.Context, event notify.Event) FanoutResult {
	var result FanoutResult

	channels, err := s.channels.GetChannels()
	if err != nil {
		logger.Error("failed to load notification channels",
			zap.String("event", event.Name),
			zap.Error(err))
		return result
	}

	for _, channel := range channels {
		if !channel.Matches(event.Name, event.ProjectID) {
			continue
		}
		result.Attempted++
		if err := s.dispatchOne(ctx, channel, event); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, ChannelFailure{
				ChannelID:   channel.ID,
				ChannelName: channel.Name,
				Error:       err.Error(),
			})
			logger.Error("notification delivery failed",
				zap.String("channel", channel.Name),
				zap.String("type", string(channel.Type)),
				zap.String("event", event.Name),
				zap.Error(err))
			continue
		}
		result.Delivered++
	}
	return result
}

// TestChannel sends a synthetic payload to exactly one channel. Transport
// errors are normalized to (false, message); callers never see a raw
// transport failure.
func (s *NotificationService) TestChannel(ctx context.Context, channel *entities.NotificationChannel) (bool, string) {
	event := notify.Event{
		Name:       "channel.test",
		Message:    fmt.Sprintf("Test notification for channel %q", channel.Name),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.dispatchOne(ctx, channel, event); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// ToggleChannel flips the enabled flag and nothing else; calling it twice
// restores the original state.
func (s *NotificationService) ToggleChannel(channel *entities.NotificationChannel) error {
	channel.Enabled = !channel.Enabled
	return s.channels.UpdateChannelEnabled(channel.ID.String(), channel.Enabled)
}

// dispatchOne runs a single delivery with a bounded timeout, converting
// panics from a misbehaving transport into ordinary errors.
func (s *NotificationService) dispatchOne(ctx context.Context, channel *entities.NotificationChannel, event notify.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()

	sender, err := s.senderFor(channel)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return sender.Send(sendCtx, event)
}
