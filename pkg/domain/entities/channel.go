package entities

import (
	"github.com/google/uuid"
)

// NotificationChannel is a configured recipient for lifecycle events.
// WebhookURL is populated for slack/discord channels, Email for email
// channels; exactly one of the two per the type contract. A nil ProjectID
// means the channel is global and receives events for every project.
type NotificationChannel struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Type       ChannelType `json:"type"`
	Enabled    bool        `json:"enabled"`
	Events     []string    `json:"events"`
	WebhookURL string      `json:"webhook_url,omitempty"`
	Email      string      `json:"email,omitempty"`
	ProjectID  *uuid.UUID  `json:"project_id,omitempty"`
}

// SubscribedTo reports whether the channel subscribes to the named event.
func (c *NotificationChannel) SubscribedTo(event string) bool {
	for _, e := range c.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Matches reports whether the channel should receive an event for the given
// project: enabled, subscribed, and either global or scoped to that project.
func (c *NotificationChannel) Matches(event string, projectID uuid.UUID) bool {
	if !c.Enabled {
		return false
	}
	if !c.SubscribedTo(event) {
		return false
	}
	return c.ProjectID == nil || *c.ProjectID == projectID
}
