package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

func TestWriterBeginWritesPendingEnvelope(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, store.AppendLogs(ctx, entities.TaskKindDeployment, "proj-1", "stale line"))
	require.NoError(t, writer.Begin(ctx))

	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, entities.TaskStatusPending, envelope.Status)
	assert.Equal(t, 0, envelope.Progress)
	assert.NotEmpty(t, envelope.RunID)

	lines, err := store.GetLogs(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	assert.Empty(t, lines, "Begin wipes the previous run's logs")
}

func TestWriterStepIsMonotonic(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.Start(ctx))
	require.NoError(t, writer.Step(ctx, 60, "Building application"))
	require.NoError(t, writer.Step(ctx, 30, "Fetching repository"))

	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, 60, envelope.Progress, "progress never moves backwards")
	assert.Equal(t, "Fetching repository", envelope.CurrentStep, "step text still updates")
}

func TestWriterStepAppendsLogs(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.Step(ctx, 10, "Connecting", "connecting over ssh"))
	require.NoError(t, writer.Step(ctx, 30, "Fetching", "git fetch origin"))

	lines, err := store.GetLogs(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"connecting over ssh", "git fetch origin"}, lines)
}

func TestWriterCompleteForcesFullProgress(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.Step(ctx, 40, "Building"))
	require.NoError(t, writer.Complete(ctx))

	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, entities.TaskStatusCompleted, envelope.Status)
	assert.Equal(t, 100, envelope.Progress)
	assert.Nil(t, envelope.ErrorMessage)
}

func TestWriterFailPreservesProgress(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.Step(ctx, 60, "Building application"))
	require.NoError(t, writer.Fail(ctx, errors.New("docker build failed")))

	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, entities.TaskStatusFailed, envelope.Status)
	assert.Equal(t, 60, envelope.Progress)
	assert.Equal(t, "Building application", envelope.CurrentStep)
	require.NotNil(t, envelope.ErrorMessage)
	assert.Equal(t, "docker build failed", *envelope.ErrorMessage)
}

func TestWriterSupersededByNewerRun(t *testing.T) {
	store := NewMemoryStore(0)
	first := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	second := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, first.Begin(ctx))
	require.NoError(t, first.Step(ctx, 30, "Fetching"))

	// Second run takes over the key.
	require.NoError(t, second.Begin(ctx))
	require.NoError(t, second.Step(ctx, 10, "Connecting"))

	err := first.Step(ctx, 60, "Building")
	assert.ErrorIs(t, err, ErrSuperseded)
	err = first.Complete(ctx)
	assert.ErrorIs(t, err, ErrSuperseded)

	// The newer run keeps writing undisturbed.
	require.NoError(t, second.Complete(ctx))
	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, entities.TaskStatusCompleted, envelope.Status)
}

func TestWriterSupersededAfterClear(t *testing.T) {
	store := NewMemoryStore(0)
	writer := NewWriter(store, entities.TaskKindDeployment, "proj-1")
	ctx := context.Background()

	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.Start(ctx))
	require.NoError(t, store.Delete(ctx, entities.TaskKindDeployment, "proj-1"))

	err := writer.Step(ctx, 50, "Building")
	assert.ErrorIs(t, err, ErrSuperseded)

	// A cleared key stays cleared.
	envelope, err := store.GetStatus(ctx, entities.TaskKindDeployment, "proj-1")
	require.NoError(t, err)
	assert.Nil(t, envelope)
}
