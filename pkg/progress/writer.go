package progress

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// ErrSuperseded is returned when the writer's run is no longer the one the
// store knows about: either the entry was cleared or a newer run took over
// the key. The stale writer must stop reporting.
var ErrSuperseded = errors.New("progress run superseded")

// Writer is the producer side of a single run. It owns monotonic progress,
// step text and log appends for one target until the run reaches a terminal
// state. Each writer carries a unique run token; writes after the token has
// been replaced in the store fail with ErrSuperseded.
type Writer struct {
	store    Store
	kind     entities.TaskKind
	targetID string
	runID    string
	progress int
	step     string
}

func NewWriter(store Store, kind entities.TaskKind, targetID string) *Writer {
	return &Writer{
		store:    store,
		kind:     kind,
		targetID: targetID,
		runID:    uuid.NewString(),
	}
}

// Begin claims the target: it wipes any previous run's logs and writes a
// pending envelope. This is the last-writer-wins takeover point.
func (w *Writer) Begin(ctx context.Context) error {
	if err := w.store.ClearLogs(ctx, w.kind, w.targetID); err != nil {
		return err
	}
	w.progress = 0
	w.step = ""
	return w.store.SetStatus(ctx, w.kind, w.targetID, entities.ProgressEnvelope{
		Status: entities.TaskStatusPending,
		RunID:  w.runID,
	})
}

// Start transitions the run from pending to running.
func (w *Writer) Start(ctx context.Context) error {
	return w.write(ctx, entities.TaskStatusRunning, w.progress, w.step, nil)
}

// Step reports forward progress. Progress never moves backwards within a
// run; a lower value than previously reported is ignored in favor of the
// current one. The producer is responsible for keeping values in 0-100.
func (w *Writer) Step(ctx context.Context, percent int, step string, logLines ...string) error {
	if percent < w.progress {
		percent = w.progress
	}
	if len(logLines) > 0 {
		if superseded, err := w.checkRun(ctx); err != nil {
			return err
		} else if superseded {
			return ErrSuperseded
		}
		if err := w.store.AppendLogs(ctx, w.kind, w.targetID, logLines...); err != nil {
			return err
		}
	}
	return w.write(ctx, entities.TaskStatusRunning, percent, step, nil)
}

// Complete marks the run finished with full progress.
func (w *Writer) Complete(ctx context.Context) error {
	return w.write(ctx, entities.TaskStatusCompleted, 100, "", nil)
}

// Fail marks the run failed, preserving the progress reached so far.
func (w *Writer) Fail(ctx context.Context, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	return w.write(ctx, entities.TaskStatusFailed, w.progress, w.step, &message)
}

func (w *Writer) write(ctx context.Context, status entities.TaskStatus, percent int, step string, errMessage *string) error {
	superseded, err := w.checkRun(ctx)
	if err != nil {
		return err
	}
	if superseded {
		return ErrSuperseded
	}
	w.progress = percent
	w.step = step
	return w.store.SetStatus(ctx, w.kind, w.targetID, entities.ProgressEnvelope{
		Status:       status,
		Progress:     percent,
		CurrentStep:  step,
		ErrorMessage: errMessage,
		RunID:        w.runID,
	})
}

// checkRun reports whether another run (or a clear) replaced this writer's
// entry. A missing envelope counts as superseded: Begin has either not been
// called or the entry was cleared, and a cleared key must stay cleared.
func (w *Writer) checkRun(ctx context.Context) (bool, error) {
	envelope, err := w.store.GetStatus(ctx, w.kind, w.targetID)
	if err != nil {
		return false, err
	}
	if envelope == nil || envelope.RunID != w.runID {
		return true, nil
	}
	return false, nil
}
