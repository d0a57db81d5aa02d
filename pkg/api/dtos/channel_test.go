package dtos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

func TestChannelRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		request   ChannelRequest
		wantError bool
	}{
		{
			name:    "valid slack channel",
			request: ChannelRequest{Name: "ops", Type: "slack", Events: []string{"deployment.failed"}, WebhookURL: "https://hooks.slack.com/x"},
		},
		{
			name:    "valid email channel",
			request: ChannelRequest{Name: "ops", Type: "email", Events: []string{"deployment.failed"}, Email: "ops@example.com"},
		},
		{
			name:      "unknown type",
			request:   ChannelRequest{Name: "ops", Type: "pager", Events: []string{"deployment.failed"}},
			wantError: true,
		},
		{
			name:      "no events",
			request:   ChannelRequest{Name: "ops", Type: "slack", WebhookURL: "https://hooks.slack.com/x"},
			wantError: true,
		},
		{
			name:      "slack without webhook url",
			request:   ChannelRequest{Name: "ops", Type: "slack", Events: []string{"deployment.failed"}},
			wantError: true,
		},
		{
			name:      "slack with email set",
			request:   ChannelRequest{Name: "ops", Type: "slack", Events: []string{"deployment.failed"}, WebhookURL: "https://hooks.slack.com/x", Email: "ops@example.com"},
			wantError: true,
		},
		{
			name:      "email without address",
			request:   ChannelRequest{Name: "ops", Type: "email", Events: []string{"deployment.failed"}},
			wantError: true,
		},
		{
			name:      "email with webhook url set",
			request:   ChannelRequest{Name: "ops", Type: "email", Events: []string{"deployment.failed"}, Email: "ops@example.com", WebhookURL: "https://hooks.slack.com/x"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChannelRequestToEntityDefaultsEnabled(t *testing.T) {
	id := uuid.New()
	request := ChannelRequest{Name: "ops", Type: "slack", Events: []string{"deployment.failed"}, WebhookURL: "https://hooks.slack.com/x"}

	channel := request.ToEntity(id)
	require.NotNil(t, channel)
	assert.Equal(t, id, channel.ID)
	assert.True(t, channel.Enabled, "new channels default to enabled")
	assert.Equal(t, entities.ChannelTypeSlack, channel.Type)

	disabled := false
	request.Enabled = &disabled
	assert.False(t, request.ToEntity(id).Enabled)
}
