package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskStatusTerminal(t *testing.T) {
	assert.True(t, TaskStatusCompleted.Terminal())
	assert.True(t, TaskStatusFailed.Terminal())
	assert.False(t, TaskStatusIdle.Terminal())
	assert.False(t, TaskStatusPending.Terminal())
	assert.False(t, TaskStatusRunning.Terminal())
}

func TestDeliveryStatusColor(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		want   string
	}{
		{DeliveryStatusSuccess, "green"},
		{DeliveryStatusFailed, "red"},
		{DeliveryStatusPending, "yellow"},
		{DeliveryStatusIgnored, "gray"},
		{DeliveryStatus("bogus"), "gray"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Color())
		})
	}
}

func TestProjectDeployEligible(t *testing.T) {
	serverID := uuid.New()
	tests := []struct {
		name    string
		project ProjectEntity
		want    bool
	}{
		{"active with server", ProjectEntity{Status: ProjectStatusActive, ServerID: &serverID}, true},
		{"running with server", ProjectEntity{Status: ProjectStatusRunning, ServerID: &serverID}, true},
		{"active without server", ProjectEntity{Status: ProjectStatusActive}, false},
		{"inactive with server", ProjectEntity{Status: ProjectStatusInactive, ServerID: &serverID}, false},
		{"failed with server", ProjectEntity{Status: ProjectStatusFailed, ServerID: &serverID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.project.DeployEligible())
		})
	}
}

func TestChannelMatches(t *testing.T) {
	projectID := uuid.New()
	otherID := uuid.New()
	base := NotificationChannel{
		Enabled: true,
		Events:  []string{"deployment.completed", "deployment.failed"},
	}

	t.Run("global channel matches any project", func(t *testing.T) {
		assert.True(t, base.Matches("deployment.completed", projectID))
		assert.True(t, base.Matches("deployment.failed", otherID))
	})

	t.Run("disabled channel never matches", func(t *testing.T) {
		channel := base
		channel.Enabled = false
		assert.False(t, channel.Matches("deployment.completed", projectID))
	})

	t.Run("unsubscribed event does not match", func(t *testing.T) {
		assert.False(t, base.Matches("channel.test", projectID))
	})

	t.Run("scoped channel matches only its project", func(t *testing.T) {
		channel := base
		channel.ProjectID = &projectID
		assert.True(t, channel.Matches("deployment.completed", projectID))
		assert.False(t, channel.Matches("deployment.completed", otherID))
	})
}
