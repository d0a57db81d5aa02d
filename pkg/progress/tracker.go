package progress

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// Tracker is the reader side of a task's lifecycle. It never mutates the
// store except through ClearAndClose; refresh and poll operations are pure
// reads suitable for fixed-interval polling. Visibility is tracker-local UI
// state, independent of the stored status.
type Tracker struct {
	store Store
	kind  entities.TaskKind

	mu        sync.Mutex
	visible   bool
	onCleared []func(targetID string)
}

func NewTracker(store Store, kind entities.TaskKind) *Tracker {
	return &Tracker{store: store, kind: kind}
}

// RefreshStatus reads the current envelope for the target, returning the
// default idle envelope when nothing is stored. Stored values pass through
// unchanged: progress is not clamped and an empty error message stays
// distinct from no error. Observing any non-idle status auto-shows the
// tracker.
func (t *Tracker) RefreshStatus(ctx context.Context, targetID string) (entities.ProgressEnvelope, error) {
	envelope, err := t.store.GetStatus(ctx, t.kind, targetID)
	if err != nil {
		return entities.DefaultEnvelope(), err
	}
	if envelope == nil {
		return entities.DefaultEnvelope(), nil
	}
	if envelope.Status != entities.TaskStatusIdle {
		t.Show()
	}
	return *envelope, nil
}

// PollLogs returns the current envelope together with the log buffer. It is
// idempotent and side-effect-free with respect to the store.
func (t *Tracker) PollLogs(ctx context.Context, targetID string) (entities.ProgressEnvelope, []string, error) {
	envelope, err := t.RefreshStatus(ctx, targetID)
	if err != nil {
		return envelope, nil, err
	}
	lines, err := t.store.GetLogs(ctx, t.kind, targetID)
	if err != nil {
		return envelope, nil, err
	}
	if lines == nil {
		lines = []string{}
	}
	return envelope, lines, nil
}

func (t *Tracker) Show() {
	t.mu.Lock()
	t.visible = true
	t.mu.Unlock()
}

func (t *Tracker) Hide() {
	t.mu.Lock()
	t.visible = false
	t.mu.Unlock()
}

func (t *Tracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// OnCleared registers a callback fired after ClearAndClose wipes a target's
// entries. Callbacks run synchronously on the clearing goroutine.
func (t *Tracker) OnCleared(fn func(targetID string)) {
	t.mu.Lock()
	t.onCleared = append(t.onCleared, fn)
	t.mu.Unlock()
}

// ClearAndClose deletes the status and log entries for the target, hides the
// tracker and notifies subscribers. An in-flight worker is not cancelled;
// its next write detects the cleared run token and stops.
func (t *Tracker) ClearAndClose(ctx context.Context, targetID string) error {
	if err := t.store.Delete(ctx, t.kind, targetID); err != nil {
		logger.Error("failed to clear progress entries",
			zap.String("kind", t.kind.String()),
			zap.String("targetId", targetID),
			zap.Error(err))
		return err
	}
	t.Hide()

	t.mu.Lock()
	subscribers := make([]func(string), len(t.onCleared))
	copy(subscribers, t.onCleared)
	t.mu.Unlock()
	for _, fn := range subscribers {
		fn(targetID)
	}
	return nil
}
