package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

func TestRefreshStatusReturnsDefaultEnvelopeWhenEmpty(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(0), entities.TaskKindDeployment)

	envelope, err := tracker.RefreshStatus(context.Background(), "proj-1")
	require.NoError(t, err)

	assert.Equal(t, entities.DefaultEnvelope(), envelope)
	assert.False(t, tracker.Visible())
}

func TestRefreshStatusPassesStoredValuesThrough(t *testing.T) {
	store := NewMemoryStore(0)
	tracker := NewTracker(store, entities.TaskKindDeployment)

	message := ""
	stored := entities.ProgressEnvelope{
		Status:       entities.TaskStatusFailed,
		Progress:     140,
		CurrentStep:  "Building application",
		ErrorMessage: &message,
		RunID:        "run-1",
	}
	require.NoError(t, store.SetStatus(context.Background(), entities.TaskKindDeployment, "proj-1", stored))

	envelope, err := tracker.RefreshStatus(context.Background(), "proj-1")
	require.NoError(t, err)

	// No clamping, and an empty error message stays distinct from no error.
	assert.Equal(t, 140, envelope.Progress)
	require.NotNil(t, envelope.ErrorMessage)
	assert.Equal(t, "", *envelope.ErrorMessage)
}

func TestRefreshStatusAutoShowsOnNonIdleStatus(t *testing.T) {
	store := NewMemoryStore(0)
	tracker := NewTracker(store, entities.TaskKindDeployment)

	require.NoError(t, store.SetStatus(context.Background(), entities.TaskKindDeployment, "proj-1", entities.ProgressEnvelope{
		Status: entities.TaskStatusRunning,
		RunID:  "run-1",
	}))

	_, err := tracker.RefreshStatus(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.True(t, tracker.Visible())
}

func TestPollLogsReturnsEmptySliceWhenNoLogs(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(0), entities.TaskKindDeployment)

	envelope, lines, err := tracker.PollLogs(context.Background(), "proj-1")
	require.NoError(t, err)

	assert.Equal(t, entities.TaskStatusIdle, envelope.Status)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestPollLogsIsIdempotent(t *testing.T) {
	store := NewMemoryStore(0)
	tracker := NewTracker(store, entities.TaskKindDeployment)

	require.NoError(t, store.AppendLogs(context.Background(), entities.TaskKindDeployment, "proj-1", "line 1", "line 2"))

	_, first, err := tracker.PollLogs(context.Background(), "proj-1")
	require.NoError(t, err)
	_, second, err := tracker.PollLogs(context.Background(), "proj-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"line 1", "line 2"}, first)
	assert.Equal(t, first, second)
}

func TestClearAndCloseResetsToIdleAndNotifies(t *testing.T) {
	store := NewMemoryStore(0)
	tracker := NewTracker(store, entities.TaskKindDeployment)

	ctx := context.Background()
	require.NoError(t, store.SetStatus(ctx, entities.TaskKindDeployment, "proj-1", entities.ProgressEnvelope{
		Status:   entities.TaskStatusRunning,
		Progress: 50,
		RunID:    "run-1",
	}))
	require.NoError(t, store.AppendLogs(ctx, entities.TaskKindDeployment, "proj-1", "line"))
	tracker.Show()

	var cleared []string
	tracker.OnCleared(func(targetID string) {
		cleared = append(cleared, targetID)
	})

	require.NoError(t, tracker.ClearAndClose(ctx, "proj-1"))

	assert.False(t, tracker.Visible())
	assert.Equal(t, []string{"proj-1"}, cleared)

	envelope, lines, err := tracker.PollLogs(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultEnvelope(), envelope)
	assert.Empty(t, lines)
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.SetStatus(ctx, entities.TaskKindDeployment, "proj-1", entities.ProgressEnvelope{
		Status: entities.TaskStatusRunning,
		RunID:  "run-1",
	}))
	require.NoError(t, store.AppendLogs(ctx, entities.TaskKindDeployment, "proj-1", "line"))

	time.Sleep(20 * time.Millisecond)

	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	assert.Nil(t, envelope)

	lines, err := store.GetLogs(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStoreKeysSeparateKinds(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.SetStatus(ctx, entities.TaskKindDeployment, "proj-1", entities.ProgressEnvelope{
		Status: entities.TaskStatusRunning,
		RunID:  "run-1",
	}))

	envelope, err := store.GetStatus(ctx, entities.TaskKindInstallation, "proj-1")
	require.NoError(t, err)
	assert.Nil(t, envelope)
}
