package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"
)

type fakeChannelRepo struct {
	channels    []*entities.NotificationChannel
	listErr     error
	enabledSets map[string]bool
}

func (f *fakeChannelRepo) GetChannels() ([]*entities.NotificationChannel, error) {
	return f.channels, f.listErr
}

func (f *fakeChannelRepo) GetChannelByID(id string) (*entities.NotificationChannel, error) {
	for _, c := range f.channels {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeChannelRepo) CreateChannel(*entities.NotificationChannel) error { return nil }
func (f *fakeChannelRepo) UpdateChannel(*entities.NotificationChannel) error { return nil }

func (f *fakeChannelRepo) UpdateChannelEnabled(id string, enabled bool) error {
	if f.enabledSets == nil {
		f.enabledSets = make(map[string]bool)
	}
	f.enabledSets[id] = enabled
	return nil
}

func (f *fakeChannelRepo) DeleteChannel(string) error { return nil }

type fakeSender struct {
	err    error
	panics bool
	sent   []notify.Event
}

func (f *fakeSender) Send(_ context.Context, event notify.Event) error {
	if f.panics {
		panic("transport exploded")
	}
	f.sent = append(f.sent, event)
	return f.err
}

func eventChannel(name string, sender notify.Sender) (*entities.NotificationChannel, notify.Sender) {
	return &entities.NotificationChannel{
		ID:      uuid.New(),
		Name:    name,
		Type:    entities.ChannelTypeSlack,
		Enabled: true,
		Events:  []string{EventDeploymentCompleted},
	}, sender
}

func TestNotifyAttemptsEveryChannelDespiteFailure(t *testing.T) {
	senders := make(map[uuid.UUID]notify.Sender)
	ch1, s1 := eventChannel("one", &fakeSender{})
	ch2, s2 := eventChannel("two", &fakeSender{err: errors.New("webhook returned 500")})
	ch3, s3 := eventChannel("three", &fakeSender{})
	senders[ch1.ID] = s1
	senders[ch2.ID] = s2
	senders[ch3.ID] = s3

	repo := &fakeChannelRepo{channels: []*entities.NotificationChannel{ch1, ch2, ch3}}
	svc := NewNotificationService(repo, func(c *entities.NotificationChannel) (notify.Sender, error) {
		return senders[c.ID], nil
	}, time.Second)

	result := svc.Notify(context.Background(), notify.Event{
		Name:      EventDeploymentCompleted,
		ProjectID: uuid.New(),
	})

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "two", result.Failures[0].ChannelName)
	assert.Contains(t, result.Failures[0].Error, "webhook returned 500")

	// The channels after the failing one were still delivered to.
	assert.Len(t, s3.(*fakeSender).sent, 1)
}

func TestNotifyFiltersChannels(t *testing.T) {
	projectID := uuid.New()
	otherProject := uuid.New()

	disabled, _ := eventChannel("disabled", &fakeSender{})
	disabled.Enabled = false
	wrongEvent, _ := eventChannel("wrong-event", &fakeSender{})
	wrongEvent.Events = []string{EventDeploymentFailed}
	scopedElsewhere, _ := eventChannel("scoped-elsewhere", &fakeSender{})
	scopedElsewhere.ProjectID = &otherProject
	scopedHere, _ := eventChannel("scoped-here", &fakeSender{})
	scopedHere.ProjectID = &projectID
	global, _ := eventChannel("global", &fakeSender{})

	repo := &fakeChannelRepo{channels: []*entities.NotificationChannel{
		disabled, wrongEvent, scopedElsewhere, scopedHere, global,
	}}
	delivered := make(map[string]int)
	svc := NewNotificationService(repo, func(c *entities.NotificationChannel) (notify.Sender, error) {
		delivered[c.Name]++
		return &fakeSender{}, nil
	}, time.Second)

	result := svc.Notify(context.Background(), notify.Event{
		Name:      EventDeploymentCompleted,
		ProjectID: projectID,
	})

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, map[string]int{"scoped-here": 1, "global": 1}, delivered)
}

func TestNotifyEmptyCandidateSetIsNoOp(t *testing.T) {
	repo := &fakeChannelRepo{}
	svc := NewNotificationService(repo, nil, time.Second)

	result := svc.Notify(context.Background(), notify.Event{Name: EventDeploymentCompleted})

	assert.Zero(t, result.Attempted)
	assert.Zero(t, result.Delivered)
	assert.Zero(t, result.Failed)
}

func TestNotifyRecoversFromTransportPanic(t *testing.T) {
	ch, sender := eventChannel("panicky", &fakeSender{panics: true})
	repo := &fakeChannelRepo{channels: []*entities.NotificationChannel{ch}}
	svc := NewNotificationService(repo, func(*entities.NotificationChannel) (notify.Sender, error) {
		return sender, nil
	}, time.Second)

	result := svc.Notify(context.Background(), notify.Event{
		Name:      EventDeploymentCompleted,
		ProjectID: uuid.New(),
	})

	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error, "transport panic")
}

func TestTestChannelNormalizesTransportErrors(t *testing.T) {
	ch, _ := eventChannel("broken", nil)
	svc := NewNotificationService(&fakeChannelRepo{}, func(*entities.NotificationChannel) (notify.Sender, error) {
		return &fakeSender{err: errors.New("connection refused")}, nil
	}, time.Second)

	ok, message := svc.TestChannel(context.Background(), ch)

	assert.False(t, ok)
	assert.Contains(t, message, "connection refused")
}

func TestTestChannelSendsSyntheticEvent(t *testing.T) {
	ch, _ := eventChannel("healthy", nil)
	sender := &fakeSender{}
	svc := NewNotificationService(&fakeChannelRepo{}, func(*entities.NotificationChannel) (notify.Sender, error) {
		return sender, nil
	}, time.Second)

	ok, message := svc.TestChannel(context.Background(), ch)

	assert.True(t, ok)
	assert.Empty(t, message)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "channel.test", sender.sent[0].Name)
}

func TestToggleChannelFlipsAndPersists(t *testing.T) {
	ch, _ := eventChannel("toggled", nil)
	repo := &fakeChannelRepo{}
	svc := NewNotificationService(repo, nil, time.Second)

	require.NoError(t, svc.ToggleChannel(ch))
	assert.False(t, ch.Enabled)
	assert.Equal(t, false, repo.enabledSets[ch.ID.String()])

	require.NoError(t, svc.ToggleChannel(ch))
	assert.True(t, ch.Enabled)
	assert.Equal(t, true, repo.enabledSets[ch.ID.String()])
}
